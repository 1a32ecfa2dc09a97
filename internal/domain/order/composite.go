package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// EmptyHook is called when a MultiOrder's nested queue has drained
type EmptyHook func(m *MultiOrder, h Host, t shared.Tick)

// MultiOrder is a composite order running its own nested queue with the
// same lifecycle rules as a division's foreground queue. It only ends by
// being canceled, either externally or by its OnEmpty hook.
type MultiOrder struct {
	Base
	queue   Queue
	onEmpty EmptyHook
}

// NewSequence creates a MultiOrder that runs orders in turn and cancels
// itself once they are done
func NewSequence(sender shared.DivisionID, orders ...Order) *MultiOrder {
	m := &MultiOrder{Base: NewBase(KindSequence, sender)}
	m.queue.Enqueue(orders...)
	return m
}

// SelfCancel is the default EmptyHook
func SelfCancel(m *MultiOrder, _ Host, _ shared.Tick) {
	m.meta.abandon()
}

// SetOnEmpty overrides the drained-queue behavior
func (m *MultiOrder) SetOnEmpty(hook EmptyHook) {
	m.onEmpty = hook
}

// Enqueue adds suborders to the nested queue
func (m *MultiOrder) Enqueue(orders ...Order) {
	m.queue.Enqueue(orders...)
}

// Suborders exposes the nested queue for inspection
func (m *MultiOrder) Suborders() *Queue {
	return &m.queue
}

func (m *MultiOrder) Proceed(h Host, t shared.Tick) {
	if m.queue.IsIdle() {
		hook := m.onEmpty
		if hook == nil {
			hook = SelfCancel
		}
		hook(m, h, t)
		if m.meta.canceled {
			return
		}
	}
	m.queue.Step(h, t)
}

func (m *MultiOrder) Pause(h Host, t shared.Tick) {
	if o := m.queue.Ongoing(); o != nil && o.Meta().HasStarted() {
		o.Pause(h, t)
	}
}

func (m *MultiOrder) End(h Host, t shared.Tick) {
	m.queue.EndOngoing(h, t)
}

func (m *MultiOrder) Finished(Host, shared.Tick) bool {
	return false
}

// Ticker accumulates elapsed game time and fires once per interval
type Ticker struct {
	Interval float64
	elapsed  float64
}

// Accumulate adds dt and reports whether the interval has been exceeded.
// At most one firing is reported per call; surplus time beyond one
// interval is dropped.
func (k *Ticker) Accumulate(dt float64) bool {
	if k.Interval <= 0 {
		return true
	}
	k.elapsed += dt
	if k.elapsed < k.Interval {
		return false
	}
	k.elapsed -= k.Interval
	if k.elapsed > k.Interval {
		k.elapsed = 0
	}
	return true
}

// Elapsed returns the time accumulated toward the next firing
func (k *Ticker) Elapsed() float64 {
	return k.elapsed
}

// Targeting holds a target by id and resolves it at the point of use
type Targeting struct {
	TargetID shared.DivisionID
}

// Resolve returns the target's current view: a fresh visible snapshot if
// the host can see it, otherwise the newest remembered one.
func (g Targeting) Resolve(h Host) (snap *intel.RememberedDivision, visible bool, ok bool) {
	if s, found := h.LookupVisible(g.TargetID); found {
		return s, true, true
	}
	if s, found := h.Remembered(g.TargetID); found {
		return s, false, true
	}
	return nil, false, false
}

// InRange reports whether the target is visible and within reach
func (g Targeting) InRange(h Host, reach float64) (*intel.RememberedDivision, bool) {
	snap, visible, ok := g.Resolve(h)
	if !ok || !visible || snap.Destroyed {
		return snap, false
	}
	return snap, h.Position().DistanceTo(snap.Position) <= reach
}
