package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

// SearchMetricsCollector handles per-blueprint search metrics
type SearchMetricsCollector struct {
	searchDuration *prometheus.HistogramVec
	searchesTotal  *prometheus.CounterVec
	statesExplored *prometheus.CounterVec
	statesPruned   *prometheus.CounterVec
	truncatedTotal *prometheus.CounterVec
	deadlocksTotal *prometheus.CounterVec
	maxGeodes      *prometheus.GaugeVec
}

// NewSearchMetricsCollector creates a new search metrics collector
func NewSearchMetricsCollector() *SearchMetricsCollector {
	return &SearchMetricsCollector{
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_duration_seconds",
				Help:      "Blueprint search duration distribution",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"policy", "eager"},
		),

		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Total number of blueprint searches by policy",
			},
			[]string{"policy"},
		),

		statesExplored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_explored_total",
				Help:      "Total number of search states expanded",
			},
			[]string{"policy"},
		),

		statesPruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "states_pruned_total",
				Help:      "Total number of search states skipped as already visited",
			},
			[]string{"policy"},
		),

		truncatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_truncated_total",
				Help:      "Searches that stopped on a node or time budget",
			},
			[]string{"policy"},
		),

		deadlocksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "deadlock_warnings_total",
				Help:      "Searches that reported a deadlock warning",
			},
			[]string{"policy"},
		),

		maxGeodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "max_geodes",
				Help:      "Latest maximum geode count per blueprint and horizon",
			},
			[]string{"blueprint_id", "horizon", "eager"},
		),
	}
}

// Register registers all search metrics with the Prometheus registry
func (c *SearchMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.searchDuration,
		c.searchesTotal,
		c.statesExplored,
		c.statesPruned,
		c.truncatedTotal,
		c.deadlocksTotal,
		c.maxGeodes,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSearch records one finished search
func (c *SearchMetricsCollector) RecordSearch(policy string, result *production.SearchResult, duration time.Duration) {
	if result == nil {
		return
	}
	eager := strconv.FormatBool(result.Eager)

	c.searchDuration.WithLabelValues(policy, eager).Observe(duration.Seconds())
	c.searchesTotal.WithLabelValues(policy).Inc()
	c.statesExplored.WithLabelValues(policy).Add(float64(result.Explored))
	c.statesPruned.WithLabelValues(policy).Add(float64(result.Pruned))
	if result.Truncated {
		c.truncatedTotal.WithLabelValues(policy).Inc()
	}
	if result.Warning != nil {
		c.deadlocksTotal.WithLabelValues(policy).Inc()
	}

	c.maxGeodes.WithLabelValues(
		strconv.Itoa(result.BlueprintID),
		strconv.Itoa(result.Horizon),
		eager,
	).Set(float64(result.MaxGeodes))
}
