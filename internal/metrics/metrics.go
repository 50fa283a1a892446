package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Trade metrics
	TradeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_engine_trade_requests_total",
			Help: "Total number of trade execution requests",
		},
		[]string{"dex", "side", "status"},
	)

	TradeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trade_engine_trade_duration_seconds",
			Help:    "End-to-end trade execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dex", "side"},
	)

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trade_engine_build_duration_seconds",
		Help:    "Instruction assembly and signing duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
	})

	// Relay metrics
	RelaySubmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_engine_relay_submits_total",
			Help: "Total relay submissions by outcome",
		},
		[]string{"relay", "status"},
	)

	RelaySubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trade_engine_relay_submit_duration_seconds",
			Help:    "Relay submission round-trip duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3},
		},
		[]string{"relay"},
	)

	RelayWins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_engine_relay_wins_total",
			Help: "Number of times each relay won the submission race",
		},
		[]string{"relay"},
	)

	// Confirmation metrics
	ConfirmationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trade_engine_confirmation_duration_seconds",
		Help:    "Time from submission to observed confirmation in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})

	ConfirmationTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trade_engine_confirmation_timeouts_total",
		Help: "Total number of confirmation waits that timed out",
	})

	// Simulation metrics
	SimulationRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trade_engine_simulation_requests_total",
		Help: "Total number of transaction simulations",
	})

	SimulationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trade_engine_simulation_failures_total",
		Help: "Total number of failed transaction simulations",
	})

	// Nonce metrics
	NonceAcquireConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trade_engine_nonce_acquire_conflicts_total",
		Help: "Total nonce acquisitions rejected because the account was held",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trade_engine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
