// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeper",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPLatency observes request latency by route template.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookkeeper",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// RuleRejections counts business-rule failures by error code.
	RuleRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeper",
		Name:      "rule_rejections_total",
		Help:      "Operations refused by a business rule, by error code.",
	}, []string{"code"})

	// LoanEvents counts loan lifecycle transitions.
	LoanEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeper",
		Name:      "loan_events_total",
		Help:      "Loan transitions, by event (checkout, renew, return).",
	}, []string{"event"})

	// LedgerEvents counts ledger writes.
	LedgerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeper",
		Name:      "ledger_events_total",
		Help:      "Ledger writes, by event (expense, income, month_close).",
	}, []string{"event"})
)

// Reject records a business-rule rejection.
func Reject(code string) {
	RuleRejections.WithLabelValues(code).Inc()
}
