// Package metrics holds the Prometheus collectors for the draft engine.
// Collectors live on a package registry so tests never touch the global one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tick results
const (
	TickPicked    = "picked"
	TickCompleted = "completed"
	TickSkipped   = "skipped"
	TickContended = "contended"
	TickFailed    = "failed"
)

var (
	Registry = prometheus.NewRegistry()

	ticks = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftsim_ticks_total",
			Help: "Draft scheduler ticks, partitioned by outcome.",
		},
		[]string{"result"},
	)
	picks = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftsim_picks_total",
			Help: "Picks made by live drafts, partitioned by strategy archetype.",
		},
		[]string{"strategy"},
	)
	tickDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "draftsim_tick_duration_seconds",
			Help:    "Time spent computing and persisting one pick.",
			Buckets: prometheus.DefBuckets,
		},
	)
	activeDrafts = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "draftsim_active_drafts",
			Help: "Drafts with a running tick timer.",
		},
	)
	textgenRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftsim_textgen_requests_total",
			Help: "Text generation calls, partitioned by status.",
		},
		[]string{"status"},
	)
	textgenFallbacks = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftsim_textgen_fallbacks_total",
			Help: "Template fallbacks used in place of generated text, partitioned by text kind.",
		},
		[]string{"kind"},
	)
	leagueGenerations = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "draftsim_league_generations_total",
			Help: "League compositions built.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveTick(result string, seconds float64) {
	ticks.WithLabelValues(result).Inc()
	if result == TickPicked || result == TickCompleted {
		tickDuration.Observe(seconds)
	}
}

func IncPick(strategy string) {
	picks.WithLabelValues(strategy).Inc()
}

func SetActiveDrafts(n int) {
	activeDrafts.Set(float64(n))
}

func IncTextGen(status string) {
	textgenRequests.WithLabelValues(status).Inc()
}

func IncFallback(kind string) {
	textgenFallbacks.WithLabelValues(kind).Inc()
}

func IncLeagueGeneration() {
	leagueGenerations.Inc()
}
