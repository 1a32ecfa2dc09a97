package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Move walks the host to a fixed destination
type Move struct {
	Base
	Destination shared.Position
	arrived     bool
}

// NewMove creates a move order issued by sender
func NewMove(sender shared.DivisionID, destination shared.Position) *Move {
	return &Move{Base: NewBase(KindMove, sender), Destination: destination}
}

func (m *Move) Proceed(h Host, t shared.Tick) {
	m.arrived = h.MoveToward(m.Destination, t.Delta)
}

func (m *Move) Finished(Host, shared.Tick) bool {
	return m.arrived
}

func (m *Move) Pause(h Host, _ shared.Tick) {
	h.Halt()
}

func (m *Move) End(h Host, _ shared.Tick) {
	h.Halt()
}

// PredictPosition follows the straight path to the destination and stops there
func (m *Move) PredictPosition(from shared.Position, speed, elapsed float64) shared.Position {
	p, _ := from.MoveToward(m.Destination, speed*elapsed)
	return p
}

// Wait idles for a number of game seconds
type Wait struct {
	Base
	Duration float64
	waited   float64
}

// NewWait creates a wait order
func NewWait(sender shared.DivisionID, seconds float64) *Wait {
	return &Wait{Base: NewBase(KindWait, sender), Duration: seconds}
}

func (w *Wait) Proceed(_ Host, t shared.Tick) {
	w.waited += t.Delta
}

func (w *Wait) Finished(Host, shared.Tick) bool {
	return w.waited >= w.Duration
}

// Remaining returns how long is left to wait
func (w *Wait) Remaining() float64 {
	if w.waited >= w.Duration {
		return 0
	}
	return w.Duration - w.waited
}
