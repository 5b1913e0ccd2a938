// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_users_created_total",
		Help: "Users created.",
	})

	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_expenses_created_total",
		Help: "Expenses created by split method.",
	}, []string{"split_method"})

	ExpensesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_expenses_rejected_total",
		Help: "Expense creations rejected before any write, by reason.",
	}, []string{"reason"})
)
