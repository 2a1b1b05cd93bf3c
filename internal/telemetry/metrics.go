package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TransferStatusSuccess           = "success"
	TransferStatusRejected          = "rejected"
	TransferStatusInsufficientFunds = "insufficient_funds"
	TransferStatusFailed            = "failed"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finbank_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finbank_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finbank_transfers_total",
			Help: "Total number of transfer attempts by outcome",
		},
		[]string{"status"},
	)

	TransferValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finbank_transfer_value",
			Help:    "Value of executed transfers",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	FinancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finbank_finances_total",
			Help: "Total number of booked finance entries",
		},
		[]string{"direction"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finbank_notifications_total",
			Help: "Total number of processed notifications",
		},
		[]string{"kind", "status"},
	)
)
