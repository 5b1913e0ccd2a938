// cmd/bot/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"expense-ledger/internal/bot"
	"expense-ledger/internal/config"
	"expense-ledger/internal/logging"
	"expense-ledger/internal/service"
	"expense-ledger/internal/storage/backend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if cfg.BotToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

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

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("Failed to start Telegram bot", "error", err)
		os.Exit(1)
	}
	// Polling and a webhook are mutually exclusive.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("Could not delete webhook", "error", err)
	}
	slog.Info("Bot started", "username", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	bot.New(service.NewLedger(store)).Run(ctx, api, updates)
	slog.Info("Bot stopped")
}
