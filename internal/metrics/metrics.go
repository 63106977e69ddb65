package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arcade",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcade",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	playsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "settlement",
			Name:      "plays_total",
			Help:      "Total number of settled plays.",
		},
		[]string{"game", "status"},
	)

	playPayouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "settlement",
			Name:      "payout_units_total",
			Help:      "Total payout units credited to reward ledgers.",
		},
		[]string{"game", "asset_kind"},
	)

	settlementDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcade",
			Subsystem: "settlement",
			Name:      "duration_seconds",
			Help:      "Duration of play settlements.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"game"},
	)

	claimsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "ledger",
			Name:      "claims_total",
			Help:      "Total number of completed claims.",
		},
	)

	raffleEntries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "raffle",
			Name:      "entries_total",
			Help:      "Total number of raffle tickets spent on entries.",
		},
	)

	raffleResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "raffle",
			Name:      "resolutions_total",
			Help:      "Total number of raffle winner selections.",
		},
		[]string{"kind"},
	)

	treasuryBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "arcade",
			Subsystem: "treasury",
			Name:      "pool_balance",
			Help:      "Current balance of each treasury pool.",
		},
		[]string{"asset_kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		playsSettled,
		playPayouts,
		settlementDuration,
		claimsCompleted,
		raffleEntries,
		raffleResolutions,
		treasuryBalance,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// HTTPRequestStarted marks one more in-flight request.
func HTTPRequestStarted() {
	httpInFlight.Inc()
}

// HTTPRequestFinished records a completed request.
func HTTPRequestFinished(method, path, status string, duration time.Duration) {
	httpInFlight.Dec()
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPlay records one settled play.
func RecordPlay(game, status, assetKind string, amountWon int64, duration time.Duration) {
	playsSettled.WithLabelValues(game, status).Inc()
	if amountWon > 0 {
		playPayouts.WithLabelValues(game, assetKind).Add(float64(amountWon))
	}
	settlementDuration.WithLabelValues(game).Observe(duration.Seconds())
}

// RecordClaim records one completed claim.
func RecordClaim() {
	claimsCompleted.Inc()
}

// RecordRaffleEntry records tickets spent on one entry.
func RecordRaffleEntry(tickets int64) {
	raffleEntries.Add(float64(tickets))
}

// RecordRaffleResolution records one winner selection.
func RecordRaffleResolution(kind string) {
	raffleResolutions.WithLabelValues(kind).Inc()
}

// SetTreasuryBalance publishes a pool's balance after a move.
func SetTreasuryBalance(assetKind string, balance int64) {
	treasuryBalance.WithLabelValues(assetKind).Set(float64(balance))
}
