package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published to the queue, by type",
		},
		[]string{"type"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Total number of domain events dropped because the queue was unavailable, by type",
		},
		[]string{"type"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of domain events consumed and persisted, by type",
		},
		[]string{"type"},
	)

	EventsConsumeFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consume_failed_total",
			Help: "Total number of queue messages negatively acknowledged, by failure stage",
		},
		[]string{"stage"},
	)
)

// Business Metrics
var (
	PlayersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "players_created_total",
			Help: "Total number of players created",
		},
	)

	ItemsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_collected_total",
			Help: "Total number of item instances collected, by definition",
		},
		[]string{"definition"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_cache_results_total",
			Help: "Player cache lookups, by result",
		},
		[]string{"result"},
	)

	DiscordCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_commands_total",
			Help: "Total number of Discord slash commands handled",
		},
		[]string{"command"},
	)
)
