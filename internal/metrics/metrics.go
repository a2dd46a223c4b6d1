// Package metrics provides Prometheus metrics for the trading dashboard.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingest Metrics
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_ingests_total",
			Help: "Account reports received, by result",
		},
		[]string{"result"}, // "ok", "invalid", "unauthorized", "rate_limited", "store_error"
	)

	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_history_snapshot_writes_total",
			Help: "Daily history snapshot upserts, by result",
		},
		[]string{"result"}, // "ok", "error"
	)

	// Account Metrics
	AccountsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_accounts_total",
			Help: "Number of accounts in the store at the last aggregation",
		},
	)

	BalanceTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_balance_total",
			Help: "Summed balance across all accounts at the last aggregation",
		},
	)

	DrawdownPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_drawdown_percent",
			Help: "Portfolio drawdown percent at the last aggregation",
		},
	)

	GroupBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_group_balance",
			Help: "Summed balance by account group",
		},
		[]string{"group"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_errors_total",
			Help: "Storage failures by operation",
		},
		[]string{"op"},
	)
)

// UpdateOverviewMetrics publishes the gauges derived from an aggregation
func UpdateOverviewMetrics(o *models.AccountsOverview) {
	AccountsTotal.Set(float64(o.Count))
	BalanceTotal.Set(o.Total.Balance)
	DrawdownPercent.Set(o.Drawdown)

	GroupBalance.Reset()
	for name, g := range o.Groups {
		GroupBalance.WithLabelValues(name).Set(g.TotalBalance)
	}
}
