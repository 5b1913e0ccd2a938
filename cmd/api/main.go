// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"expense-ledger/internal/bot"
	"expense-ledger/internal/config"
	"expense-ledger/internal/handler"
	"expense-ledger/internal/logging"
	"expense-ledger/internal/service"
	"expense-ledger/internal/storage/backend"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.MigrateOnStart {
		if err := store.Migrate(ctx); err != nil {
			slog.Error("Migrations failed", "error", err)
			os.Exit(1)
		}
	}

	ledger := service.NewLedger(store)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterConfig{
		Ledger:     ledger,
		Store:      store,
		CORSOrigin: cfg.CORSOrigin,
	})

	if cfg.BotToken != "" && cfg.WebhookURL != "" {
		if err := mountTelegramWebhook(router, cfg, bot.New(ledger)); err != nil {
			slog.Error("Failed to set up Telegram webhook", "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		slog.Info("Server started", "addr", cfg.ServerPort, "backend", cfg.StorageBackend, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// mountTelegramWebhook registers the webhook with Telegram and serves
// updates on POST /telegram.
func mountTelegramWebhook(router *gin.Engine, cfg config.Config, b *bot.Bot) error {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return err
	}

	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/telegram")
	if err != nil {
		return err
	}
	if _, err := api.Request(wh); err != nil {
		return err
	}
	slog.Info("Telegram webhook set", "bot", api.Self.UserName, "url", cfg.WebhookURL+"/telegram")

	router.POST("/telegram", func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			slog.Warn("Bad Telegram update", "error", err)
			c.Status(http.StatusBadRequest)
			return
		}
		if err := b.HandleUpdate(c.Request.Context(), api, update); err != nil {
			slog.Warn("Bot reply failed", "error", err)
		}
		c.Status(http.StatusOK)
	})
	return nil
}
