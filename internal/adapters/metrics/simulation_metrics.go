package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// SimulationMetricsCollector handles tick, event and force metrics
type SimulationMetricsCollector struct {
	ticksTotal    prometheus.Counter
	tickDuration  prometheus.Histogram
	divisionsLive prometheus.Gauge
	eventsTotal   *prometheus.CounterVec
	simTime       prometheus.Gauge

	teamDivisions *prometheus.GaugeVec
	teamSoldiers  *prometheus.GaugeVec

	mu sync.Mutex
}

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		// Processed ticks counter
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of processed ticks",
			},
		),

		// Wall time spent per tick
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall-clock time spent processing one tick",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		// Live divisions gauge
		divisionsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "divisions_live",
				Help:      "Number of live divisions after the last tick",
			},
		),

		// Events by type
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_total",
				Help:      "Total number of simulation events by type",
			},
			[]string{"event"},
		),

		// Game time of the newest event seen
		simTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "game_time_seconds",
				Help:      "Game time of the most recent event",
			},
		),

		teamDivisions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_divisions",
				Help:      "Live divisions per team",
			},
			[]string{"team"},
		),

		teamSoldiers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_soldiers",
				Help:      "Live soldiers per team",
			},
			[]string{"team"},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.tickDuration,
		c.divisionsLive,
		c.eventsTotal,
		c.simTime,
		c.teamDivisions,
		c.teamSoldiers,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTick records one processed tick
func (c *SimulationMetricsCollector) RecordTick(duration time.Duration, live int) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(duration.Seconds())
	c.divisionsLive.Set(float64(live))
}

// RecordEvent records one simulation event
func (c *SimulationMetricsCollector) RecordEvent(event division.Event) {
	c.eventsTotal.WithLabelValues(string(event.Type)).Inc()
	c.simTime.Set(float64(event.At))
}

// RecordForces records the strength of one team
func (c *SimulationMetricsCollector) RecordForces(team shared.TeamID, divisions int, soldiers int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := strconv.Itoa(int(team))
	c.teamDivisions.WithLabelValues(label).Set(float64(divisions))
	c.teamSoldiers.WithLabelValues(label).Set(float64(soldiers))
}

// RecordWorld tallies forces per team from a list of live divisions
func RecordWorld(divisions []*division.Division) {
	type tally struct{ divisions, soldiers int }
	teams := make(map[shared.TeamID]*tally)
	for _, d := range divisions {
		t, ok := teams[d.Team()]
		if !ok {
			t = &tally{}
			teams[d.Team()] = t
		}
		t.divisions++
		t.soldiers += d.SoldierCount()
	}
	for team, t := range teams {
		RecordForces(team, t.divisions, t.soldiers)
	}
}
