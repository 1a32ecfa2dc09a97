package order

import (
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Status represents the state of an order in its lifecycle
type Status string

const (
	// StatusNotStarted indicates the order is queued but not yet active
	StatusNotStarted Status = "NOT_STARTED"

	// StatusStarted indicates Start has run and the order is being proceeded
	StatusStarted Status = "STARTED"

	// StatusFinished indicates the order reported itself finished
	StatusFinished Status = "FINISHED"

	// StatusCanceled indicates the scheduler observed the cancel flag
	StatusCanceled Status = "CANCELED"

	// StatusEnded indicates End has run; terminal
	StatusEnded Status = "ENDED"
)

// Lifecycle tracks NOT_STARTED → STARTED → FINISHED|CANCELED → ENDED.
//
// Invariants:
// - Transitions only move forward
// - ENDED is terminal
// - Timestamps are simulation time, supplied by the caller
type Lifecycle struct {
	status    Status
	outcome   Status
	startedAt *shared.SimTime
	endedAt   *shared.SimTime
}

// NewLifecycle creates a lifecycle in NOT_STARTED state
func NewLifecycle() *Lifecycle {
	return &Lifecycle{status: StatusNotStarted}
}

// Status returns the current lifecycle status
func (l *Lifecycle) Status() Status {
	return l.status
}

// Outcome returns FINISHED or CANCELED once the order has ended, else ""
func (l *Lifecycle) Outcome() Status {
	return l.outcome
}

// State transition methods

func (l *Lifecycle) start(now shared.SimTime) error {
	if l.status != StatusNotStarted {
		return fmt.Errorf("cannot start from %s state", l.status)
	}
	l.status = StatusStarted
	l.startedAt = &now
	return nil
}

func (l *Lifecycle) finish() error {
	if l.status != StatusStarted {
		return fmt.Errorf("cannot finish from %s state", l.status)
	}
	l.status = StatusFinished
	l.outcome = StatusFinished
	return nil
}

func (l *Lifecycle) cancel() error {
	if l.status == StatusEnded || l.status == StatusFinished {
		return fmt.Errorf("cannot cancel from %s state", l.status)
	}
	l.status = StatusCanceled
	l.outcome = StatusCanceled
	return nil
}

func (l *Lifecycle) end(now shared.SimTime) error {
	if l.status != StatusFinished && l.status != StatusCanceled {
		return fmt.Errorf("cannot end from %s state", l.status)
	}
	l.status = StatusEnded
	l.endedAt = &now
	return nil
}

// State query methods

// HasStarted returns true once Start has run
func (l *Lifecycle) HasStarted() bool {
	return l.startedAt != nil
}

// IsEnded returns true once the order is retired
func (l *Lifecycle) IsEnded() bool {
	return l.status == StatusEnded
}

// Runtime returns how long the order has been, or was, active in game seconds
func (l *Lifecycle) Runtime(now shared.SimTime) float64 {
	if l.startedAt == nil {
		return 0
	}
	end := now
	if l.endedAt != nil {
		end = *l.endedAt
	}
	return end.Sub(*l.startedAt)
}
