package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Advance drives one order through one tick and reports whether it retired.
//
// Orders canceled before they ever started are retired silently: neither
// Start nor End runs for them. A cancel raised by the order itself during
// Proceed is honored in the same tick.
func Advance(o Order, h Host, t shared.Tick) bool {
	m := o.Meta()
	lc := m.Lifecycle()
	if lc.IsEnded() {
		return true
	}

	if !lc.HasStarted() {
		if m.canceled {
			_ = lc.cancel()
			_ = lc.end(t.Now)
			return true
		}
		m.HostID = h.ID()
		_ = lc.start(t.Now)
		o.Start(h, t)
	}

	if m.canceled {
		retire(o, h, t)
		return true
	}

	if t.Paused {
		o.Pause(h, t)
		return false
	}

	o.Proceed(h, t)

	if m.canceled || o.Finished(h, t) {
		retire(o, h, t)
		return true
	}
	return false
}

func retire(o Order, h Host, t shared.Tick) {
	lc := o.Meta().Lifecycle()
	if o.Meta().canceled {
		_ = lc.cancel()
	} else {
		_ = lc.finish()
	}
	o.End(h, t)
	_ = lc.end(t.Now)
}

// Queue is a FIFO of foreground orders with at most one ongoing order
type Queue struct {
	pending []Order
	ongoing Order
}

// Enqueue appends orders to the back of the queue
func (q *Queue) Enqueue(orders ...Order) {
	for _, o := range orders {
		if o != nil {
			q.pending = append(q.pending, o)
		}
	}
}

// Ongoing returns the active order, or nil when idle
func (q *Queue) Ongoing() Order {
	return q.ongoing
}

// Pending returns a copy of the orders waiting behind the ongoing one
func (q *Queue) Pending() []Order {
	return append([]Order(nil), q.pending...)
}

// Len counts pending orders plus the ongoing one
func (q *Queue) Len() int {
	n := len(q.pending)
	if q.ongoing != nil {
		n++
	}
	return n
}

// IsIdle reports whether there is nothing left to run
func (q *Queue) IsIdle() bool {
	return q.ongoing == nil && len(q.pending) == 0
}

// Step advances at most one order and returns the orders retired during
// the step. Queued orders canceled before starting are skipped over.
func (q *Queue) Step(h Host, t shared.Tick) []Order {
	var retired []Order
	for q.ongoing == nil && len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		if next.Meta().Canceled() && !next.Meta().HasStarted() {
			Advance(next, h, t)
			retired = append(retired, next)
			continue
		}
		q.ongoing = next
	}
	if q.ongoing == nil {
		return retired
	}
	if Advance(q.ongoing, h, t) {
		retired = append(retired, q.ongoing)
		q.ongoing = nil
	}
	return retired
}

// CancelAll raises the cancel flag on every cancelable order
func (q *Queue) CancelAll() {
	if q.ongoing != nil && q.ongoing.Meta().Cancelable {
		q.ongoing.Meta().abandon()
	}
	for _, o := range q.pending {
		if o.Meta().Cancelable {
			o.Meta().abandon()
		}
	}
}

// EndOngoing ends the active order outside of the normal Finished flow,
// as when its enclosing order is itself ending.
func (q *Queue) EndOngoing(h Host, t shared.Tick) {
	if q.ongoing == nil {
		return
	}
	o := q.ongoing
	q.ongoing = nil
	if o.Meta().HasStarted() && !o.Meta().Lifecycle().IsEnded() {
		o.Meta().abandon()
		retire(o, h, t)
	}
}

// Clone copies the queue structure. The orders themselves move with it.
func (q *Queue) Clone() Queue {
	return Queue{pending: q.Pending(), ongoing: q.ongoing}
}

// Background is the set of concurrently running orders of one division
type Background struct {
	orders []Order
}

// Add admits an order into the set; it starts on the next Step
func (b *Background) Add(o Order) {
	if o == nil {
		return
	}
	o.Meta().Background = true
	b.orders = append(b.orders, o)
}

// Orders returns a copy of the running set
func (b *Background) Orders() []Order {
	return append([]Order(nil), b.orders...)
}

// Len returns the number of background orders
func (b *Background) Len() int {
	return len(b.orders)
}

// Step advances every background order once. Orders added while stepping
// wait for the next Step.
func (b *Background) Step(h Host, t shared.Tick) []Order {
	running := b.Orders()
	var retired []Order
	done := make(map[Order]bool)
	for _, o := range running {
		if Advance(o, h, t) {
			done[o] = true
			retired = append(retired, o)
		}
	}
	if len(done) == 0 {
		return nil
	}
	kept := b.orders[:0]
	for _, o := range b.orders {
		if !done[o] {
			kept = append(kept, o)
		}
	}
	b.orders = kept
	return retired
}

// Clone copies the set structure
func (b *Background) Clone() Background {
	return Background{orders: b.Orders()}
}
