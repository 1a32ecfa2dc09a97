package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// DefaultDeliveryRange is how close a courier must get to hand over orders
const DefaultDeliveryRange = 5.0

// Locate moves toward a target's best known position until the target is
// visible and within delivery range. It gives up when the target is known
// to be destroyed or was never known.
type Locate struct {
	Base
	Targeting
	DeliveryRange float64
	found         bool
}

// NewLocate creates the first half of a courier's order pair
func NewLocate(sender, target shared.DivisionID, deliveryRange float64) *Locate {
	if deliveryRange <= 0 {
		deliveryRange = DefaultDeliveryRange
	}
	return &Locate{
		Base:          NewBase(KindLocate, sender),
		Targeting:     Targeting{TargetID: target},
		DeliveryRange: deliveryRange,
	}
}

func (l *Locate) Proceed(h Host, t shared.Tick) {
	snap, visible, ok := l.Resolve(h)
	if !ok || snap.Destroyed {
		l.meta.abandon()
		return
	}
	if visible && h.Position().DistanceTo(snap.Position) <= l.DeliveryRange {
		l.found = true
		h.Halt()
		return
	}
	h.MoveToward(snap.PredictedPosition(t.Now), t.Delta)
}

func (l *Locate) Finished(Host, shared.Tick) bool {
	return l.found
}

func (l *Locate) Pause(h Host, _ shared.Tick) {
	h.Halt()
}

// Found reports whether the target was reached
func (l *Locate) Found() bool {
	return l.found
}

// Deliver hands its payload to the target once in range. A payload whose
// recipient is gone is dropped.
type Deliver struct {
	Base
	Targeting
	DeliveryRange float64
	Payload       []Order
	delivered     bool
}

// NewDeliver creates the second half of a courier's order pair
func NewDeliver(sender, target shared.DivisionID, payload []Order, deliveryRange float64) *Deliver {
	if deliveryRange <= 0 {
		deliveryRange = DefaultDeliveryRange
	}
	return &Deliver{
		Base:          NewBase(KindDeliver, sender),
		Targeting:     Targeting{TargetID: target},
		DeliveryRange: deliveryRange,
		Payload:       payload,
	}
}

func (d *Deliver) Proceed(h Host, t shared.Tick) {
	snap, visible, ok := d.Resolve(h)
	if !ok || snap.Destroyed {
		d.meta.abandon()
		return
	}
	if visible && h.Position().DistanceTo(snap.Position) <= d.DeliveryRange {
		if err := h.DeliverOrders(d.TargetID, d.Payload); err != nil {
			return
		}
		d.delivered = true
		return
	}
	h.MoveToward(snap.PredictedPosition(t.Now), t.Delta)
}

func (d *Deliver) Finished(Host, shared.Tick) bool {
	return d.delivered
}

func (d *Deliver) Pause(h Host, _ shared.Tick) {
	h.Halt()
}

// Delivered reports whether the payload reached its recipient
func (d *Deliver) Delivered() bool {
	return d.delivered
}

// Rejoin walks a spent courier back to the division that sent it and folds
// it in, so couriers never move soldiers between divisions. If the sender
// is gone the courier falls in with Fallback instead; with both gone the
// order gives up and the courier is left idle.
type Rejoin struct {
	Base
	Targeting
	Fallback      shared.DivisionID
	DeliveryRange float64
	joined        bool
}

// NewRejoin creates the return leg of a courier's trip
func NewRejoin(sender, fallback shared.DivisionID, deliveryRange float64) *Rejoin {
	if deliveryRange <= 0 {
		deliveryRange = DefaultDeliveryRange
	}
	return &Rejoin{
		Base:          NewBase(KindRejoin, sender),
		Targeting:     Targeting{TargetID: sender},
		Fallback:      fallback,
		DeliveryRange: deliveryRange,
	}
}

func (r *Rejoin) Proceed(h Host, t shared.Tick) {
	snap, visible, ok := r.Resolve(h)
	if !ok || snap.Destroyed {
		if r.Fallback.IsZero() || r.Fallback == r.TargetID {
			r.meta.abandon()
			return
		}
		r.TargetID, r.Fallback = r.Fallback, shared.NoDivision
		return
	}
	if visible && h.Position().DistanceTo(snap.Position) <= r.DeliveryRange {
		h.Halt()
		r.joined = h.JoinDivision(r.TargetID) == nil
		return
	}
	h.MoveToward(snap.PredictedPosition(t.Now), t.Delta)
}

func (r *Rejoin) Finished(Host, shared.Tick) bool {
	return r.joined
}

func (r *Rejoin) Pause(h Host, _ shared.Tick) {
	h.Halt()
}

// Joined reports whether the courier fell in with a division
func (r *Rejoin) Joined() bool {
	return r.joined
}
