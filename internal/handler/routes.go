// internal/handler/routes.go
package handler

import (
	"expense-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Ledger Ledger
	Store  Pinger
	// CORSOrigin is the single origin allowed cross-origin access.
	// Empty disables CORS headers entirely.
	CORSOrigin string
	// MaxBodyBytes caps request bodies; zero means
	// middleware.DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = middleware.DefaultMaxBodyBytes
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)
	if cfg.CORSOrigin != "" {
		router.Use(middleware.CORS(cfg.CORSOrigin))
	}

	h := NewLedgerHandler(cfg.Ledger)

	router.POST("/users", h.CreateUser)
	router.GET("/users/:id", h.GetUser)
	router.POST("/expenses", h.CreateExpense)
	router.GET("/expenses", h.ListExpenses)
	router.GET("/expenses/user/:id", h.ListUserExpenses)
	router.GET("/balance-sheet", h.BalanceSheet)

	router.GET("/healthz", Healthz(cfg.Store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(respondNotFound)
	return router
}
