package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransfersCreated     prometheus.Counter
	ExchangesCreated     prometheus.Counter
	TransactionsReversed prometheus.Counter
	TransferAmount       prometheus.Histogram
	TransferErrors       *prometheus.CounterVec
	ExchangeProfit       prometheus.Histogram

	// Entity metrics
	EntitiesCreated *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBConnections prometheus.Gauge

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarrafbook_transfers_created_total",
			Help: "Total number of simple transfers created",
		}),
		ExchangesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarrafbook_exchanges_created_total",
			Help: "Total number of exchange transfers created",
		}),
		TransactionsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarrafbook_transactions_reversed_total",
			Help: "Total number of transactions reversed",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sarrafbook_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarrafbook_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		ExchangeProfit: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sarrafbook_exchange_profit",
			Help:    "Profit realized per exchange transfer",
			Buckets: []float64{-1000, -100, -10, 0, 10, 100, 1000, 10000},
		}),

		// Entity metrics
		EntitiesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarrafbook_entities_created_total",
				Help: "Total entities created by category",
			},
			[]string{"category"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarrafbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sarrafbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sarrafbook_db_connections",
			Help: "Current number of database connections",
		}),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarrafbook_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarrafbook_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarrafbook_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
