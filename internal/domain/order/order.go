package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Kind names a concrete order variant
type Kind string

const (
	KindMove        Kind = "MOVE"
	KindWait        Kind = "WAIT"
	KindAttack      Kind = "ATTACK"
	KindEngage      Kind = "ENGAGE"
	KindLocate      Kind = "LOCATE"
	KindDeliver     Kind = "DELIVER"
	KindRejoin      Kind = "REJOIN"
	KindReport      Kind = "REPORT"
	KindIntelReport Kind = "INTEL_REPORT"
	KindRecruit     Kind = "RECRUIT"
	KindSequence    Kind = "SEQUENCE"
)

// Order is a unit of work executed by exactly one division at a time.
//
// The scheduler (Advance) owns the call order:
// - Start once, when the order becomes active
// - Proceed once per unpaused tick, or Pause while the simulation is paused
// - Finished polled after every Proceed
// - End exactly once, after Finished returns true or the cancel flag is seen
type Order interface {
	Kind() Kind
	Meta() *Meta

	Start(h Host, t shared.Tick)
	Proceed(h Host, t shared.Tick)
	Pause(h Host, t shared.Tick)
	End(h Host, t shared.Tick)
	Finished(h Host, t shared.Tick) bool
}

// Meta carries the bookkeeping every order shares
type Meta struct {
	HostID                  shared.DivisionID
	CommanderSendingOrderID shared.DivisionID
	Background              bool
	Cancelable              bool

	canceled  bool
	lifecycle *Lifecycle
}

// NewMeta creates cancelable foreground metadata
func NewMeta() Meta {
	return Meta{Cancelable: true, lifecycle: NewLifecycle()}
}

// Lifecycle exposes the order's state machine
func (m *Meta) Lifecycle() *Lifecycle {
	if m.lifecycle == nil {
		m.lifecycle = NewLifecycle()
	}
	return m.lifecycle
}

// Canceled reports the cooperative cancel flag
func (m *Meta) Canceled() bool {
	return m.canceled
}

// HasStarted reports whether Start has run
func (m *Meta) HasStarted() bool {
	return m.Lifecycle().HasStarted()
}

// Cancel raises the cancel flag. The scheduler ends the order on its next
// check; a Proceed already underway is never interrupted.
func (m *Meta) Cancel(kind Kind) error {
	if !m.Cancelable {
		return shared.NewOrderStateError(string(kind), "order is not cancelable")
	}
	if m.Lifecycle().IsEnded() {
		return shared.NewOrderStateError(string(kind), "order has already ended")
	}
	m.canceled = true
	return nil
}

// abandon raises the cancel flag regardless of Cancelable. Orders use it to
// give up on themselves.
func (m *Meta) abandon() {
	m.canceled = true
}

// Base supplies Meta, Kind and no-op lifecycle hooks for concrete orders
type Base struct {
	meta Meta
	kind Kind
}

// NewBase creates the shared part of a concrete order
func NewBase(kind Kind, sender shared.DivisionID) Base {
	m := NewMeta()
	m.CommanderSendingOrderID = sender
	return Base{meta: m, kind: kind}
}

func (b *Base) Kind() Kind  { return b.kind }
func (b *Base) Meta() *Meta { return &b.meta }

func (b *Base) Start(Host, shared.Tick) {}
func (b *Base) Pause(Host, shared.Tick) {}
func (b *Base) End(Host, shared.Tick)   {}

// Cancel raises the cooperative cancel flag
func (b *Base) Cancel() error {
	return b.meta.Cancel(b.kind)
}

// Dispatch reports how SendOrdersTo delivered a batch
type Dispatch struct {
	Direct    bool
	CourierID shared.DivisionID
	Path      []shared.DivisionID
}

// Hops returns the number of edges between sender and target
func (d Dispatch) Hops() int {
	if len(d.Path) == 0 {
		return 0
	}
	return len(d.Path) - 1
}
