// Package metrics provides Prometheus metrics for the Hoopdle game server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the game server.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Game Metrics - What players are doing
	gamesStarted     prometheus.Counter
	guesses          prometheus.Counter
	gamesWon         prometheus.Counter
	gamesLost        prometheus.Counter
	duplicateGuesses prometheus.Counter

	// Roster Metrics - Pool size and upstream health
	rosterPlayers        prometheus.Gauge
	rosterUpstreamErrors prometheus.Counter

	// Session Metrics
	activeSessions prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hoopdle",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Game Metrics
	m.gamesStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_started_total",
		Help:      "Total number of game sessions started",
	})

	m.guesses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guesses_total",
		Help:      "Total number of guesses accepted into a session history",
	})

	m.gamesWon = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_won_total",
		Help:      "Total number of sessions finished by a correct guess",
	})

	m.gamesLost = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_lost_total",
		Help:      "Total number of sessions that exhausted the guess budget",
	})

	m.duplicateGuesses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_guesses_total",
		Help:      "Total number of guesses rejected as already-guessed players",
	})

	// Roster Metrics
	m.rosterPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_players",
		Help:      "Number of players in the candidate pool",
	})

	m.rosterUpstreamErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_upstream_errors_total",
		Help:      "Total number of stats API failures after retries were spent",
	})

	// Session Metrics
	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of sessions currently held in the store",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordGameStarted increments the games started counter.
func RecordGameStarted() {
	globalManager.gamesStarted.Inc()
}

// RecordGuess increments the accepted guesses counter.
func RecordGuess() {
	globalManager.guesses.Inc()
}

// RecordGameWon increments the games won counter.
func RecordGameWon() {
	globalManager.gamesWon.Inc()
}

// RecordGameLost increments the games lost counter.
func RecordGameLost() {
	globalManager.gamesLost.Inc()
}

// RecordDuplicateGuess increments the duplicate guess counter.
func RecordDuplicateGuess() {
	globalManager.duplicateGuesses.Inc()
}

// RecordRosterUpstreamError increments the upstream failure counter.
func RecordRosterUpstreamError() {
	globalManager.rosterUpstreamErrors.Inc()
}

// UpdateRosterPlayers sets the candidate pool size.
func UpdateRosterPlayers(count int) {
	globalManager.rosterPlayers.Set(float64(count))
}

// UpdateActiveSessions sets the in-store session count.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the custom registry over HTTP for the /metrics route.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
