package metrics

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
)

func newRegisteredCollector(t *testing.T) *SimulationMetricsCollector {
	t.Helper()
	InitRegistry()
	c := NewSimulationMetricsCollector()
	require.NoError(t, c.Register())
	SetGlobalCollector(c)
	t.Cleanup(func() {
		SetGlobalCollector(nil)
		Registry = nil
	})
	return c
}

func valueOf(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	switch {
	case out.Counter != nil:
		return out.GetCounter().GetValue()
	case out.Gauge != nil:
		return out.GetGauge().GetValue()
	}
	t.Fatalf("unsupported metric")
	return 0
}

func TestSimulationMetricsCollector_RecordsTicksAndEvents(t *testing.T) {
	// Arrange
	c := newRegisteredCollector(t)
	var rec GlobalRecorder

	// Act
	rec.RecordTick(2*time.Millisecond, 7)
	rec.RecordTick(time.Millisecond, 6)
	rec.RecordEvent(division.Event{Type: division.EventCourierDispatched, At: 3})
	rec.RecordEvent(division.Event{Type: division.EventCourierDispatched, At: 4})
	rec.RecordEvent(division.Event{Type: division.EventDivisionDestroyed, At: 5})
	RecordForces(1, 3, 12)

	// Assert
	assert.Equal(t, 2.0, valueOf(t, c.ticksTotal))
	assert.Equal(t, 6.0, valueOf(t, c.divisionsLive))
	assert.Equal(t, 2.0, valueOf(t, c.eventsTotal.WithLabelValues(string(division.EventCourierDispatched))))
	assert.Equal(t, 5.0, valueOf(t, c.simTime))
	assert.Equal(t, 12.0, valueOf(t, c.teamSoldiers.WithLabelValues("1")))
}

func TestGlobalRecorder_NoCollectorIsSafe(t *testing.T) {
	SetGlobalCollector(nil)

	assert.NotPanics(t, func() {
		GlobalRecorder{}.RecordTick(time.Millisecond, 1)
		GlobalRecorder{}.RecordEvent(division.Event{})
	})
}

func TestServer_ServesRegistry(t *testing.T) {
	newRegisteredCollector(t)
	RecordTick(time.Millisecond, 1)
	srv, err := NewServer("127.0.0.1", 0, "")
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	defer srv.Shutdown(t.Context())

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "chaincommand_simulation_ticks_total 1")
}
