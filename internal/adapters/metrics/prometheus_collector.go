package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

const (
	// Namespace for all metrics
	namespace = "chaincommand"
	// Subsystem for simulation metrics
	subsystem = "simulation"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton simulation metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector SimulationMetricsRecorder
)

// SimulationMetricsRecorder defines the interface for recording simulation metrics
type SimulationMetricsRecorder interface {
	RecordTick(duration time.Duration, live int)
	RecordEvent(event division.Event)
	RecordForces(team shared.TeamID, divisions int, soldiers int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
func SetGlobalCollector(collector SimulationMetricsRecorder) {
	globalCollector = collector
}

// RecordTick records a processed tick globally
func RecordTick(duration time.Duration, live int) {
	if globalCollector != nil {
		globalCollector.RecordTick(duration, live)
	}
}

// RecordEvent records a simulation event globally
func RecordEvent(event division.Event) {
	if globalCollector != nil {
		globalCollector.RecordEvent(event)
	}
}

// RecordForces records the strength of one team globally
func RecordForces(team shared.TeamID, divisions int, soldiers int) {
	if globalCollector != nil {
		globalCollector.RecordForces(team, divisions, soldiers)
	}
}

// GlobalRecorder forwards to whatever collector is installed globally.
// It satisfies simulation.MetricsRecorder and is safe to use when metrics
// are disabled.
type GlobalRecorder struct{}

func (GlobalRecorder) RecordTick(duration time.Duration, live int) { RecordTick(duration, live) }
func (GlobalRecorder) RecordEvent(event division.Event)            { RecordEvent(event) }
