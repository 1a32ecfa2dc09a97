package simulation

import (
	"context"
	"time"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
)

// VisibilityProvider decides which divisions an observer can see this tick
type VisibilityProvider interface {
	VisiblePeers(observer *division.Division, all []*division.Division) []*division.Division
}

// MetricsRecorder receives per-tick measurements
type MetricsRecorder interface {
	RecordTick(duration time.Duration, live int)
	RecordEvent(event division.Event)
}

// EventJournal persists the events of each tick
type EventJournal interface {
	Append(ctx context.Context, tick int64, events []division.Event) error
}

type noopMetrics struct{}

func (noopMetrics) RecordTick(time.Duration, int) {}
func (noopMetrics) RecordEvent(division.Event)    {}

type noopJournal struct{}

func (noopJournal) Append(context.Context, int64, []division.Event) error { return nil }

// everyoneVisible is used when no visibility provider is configured
type everyoneVisible struct{}

func (everyoneVisible) VisiblePeers(observer *division.Division, all []*division.Division) []*division.Division {
	out := make([]*division.Division, 0, len(all))
	for _, d := range all {
		if d.ID() != observer.ID() {
			out = append(out, d)
		}
	}
	return out
}
