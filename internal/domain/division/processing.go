package division

import (
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

var _ order.Host = (*Division)(nil)

// ProcessOrders runs at most one foreground order for this tick
func (d *Division) ProcessOrders(t shared.Tick) []order.Order {
	if d.destroyed {
		return nil
	}
	retired := d.queue.Step(d, t)
	d.recordEnded(retired, t)
	return retired
}

// ProcessBackgroundOrders runs every background order for this tick
func (d *Division) ProcessBackgroundOrders(t shared.Tick) []order.Order {
	if d.destroyed {
		return nil
	}
	retired := d.background.Step(d, t)
	d.recordEnded(retired, t)
	return retired
}

func (d *Division) recordEnded(retired []order.Order, t shared.Tick) {
	for _, o := range retired {
		lc := o.Meta().Lifecycle()
		outcome := lc.Outcome()
		if outcome == "" {
			outcome = order.StatusCanceled
		}
		detail := fmt.Sprintf("%s %s after %.1fs", o.Kind(), outcome, lc.Runtime(t.Now))
		d.record(EventOrderEnded, t.Now, o.Meta().CommanderSendingOrderID, detail)
	}
}

// Host implementation

// MoveToward steps toward target at the division's aggregate speed
func (d *Division) MoveToward(target shared.Position, dt float64) bool {
	if dt <= 0 {
		return d.position == target
	}
	next, arrived := d.position.MoveToward(target, d.stats.AverageSpeed*dt)
	d.velocity = next.Sub(d.position).Scale(1 / dt)
	d.position = next
	d.RecalculateAggregateValues()
	return arrived
}

// Halt zeroes the velocity
func (d *Division) Halt() {
	d.velocity = shared.Position{}
}

// LookupVisible returns the fresh snapshot of a division in sight
func (d *Division) LookupVisible(id shared.DivisionID) (*intel.RememberedDivision, bool) {
	s, ok := d.visible[id]
	return s, ok
}

// Remembered returns the newest remembered snapshot of id
func (d *Division) Remembered(id shared.DivisionID) (*intel.RememberedDivision, bool) {
	return d.memory.Get(id)
}

// Visible returns fresh snapshots of every division in sight, by id
func (d *Division) Visible() []*intel.RememberedDivision {
	out := make([]*intel.RememberedDivision, 0, len(d.visible))
	for _, id := range sortedKeys(d.visible) {
		out = append(out, d.visible[id])
	}
	return out
}

// VisibleEnemies lists visible, living divisions of other teams
func (d *Division) VisibleEnemies() []*intel.RememberedDivision {
	var out []*intel.RememberedDivision
	for _, s := range d.Visible() {
		if s.Team != d.team && !s.Destroyed {
			out = append(out, s)
		}
	}
	return out
}

// Attack fires on a visible target for dt seconds. The damage is applied
// by the world after all divisions have acted, so the kill is never known
// within the same call.
func (d *Division) Attack(target shared.DivisionID, dt float64) (bool, error) {
	snap, ok := d.visible[target]
	if !ok {
		return false, shared.NewTargetNotFoundError(d.id, target)
	}
	if snap.Destroyed {
		return true, nil
	}
	amount := d.damage.Damage(d.stats, snap.Stats, dt)
	if amount > 0 {
		d.emit(DamageEffect{From: d.id, Target: target, Amount: amount})
	}
	return false, nil
}

// DeliverOrders hands orders to a visible division within delivery range
func (d *Division) DeliverOrders(target shared.DivisionID, orders []order.Order) error {
	if err := d.withinReach(target); err != nil {
		return err
	}
	d.emit(DeliveryEffect{From: d.id, Target: target, Orders: orders})
	return nil
}

// JoinDivision folds this division into a visible one within delivery range
func (d *Division) JoinDivision(target shared.DivisionID) error {
	if err := d.withinReach(target); err != nil {
		return err
	}
	d.emit(JoinEffect{From: d.id, Target: target})
	return nil
}

func (d *Division) withinReach(target shared.DivisionID) error {
	snap, ok := d.visible[target]
	if !ok || snap.Destroyed {
		return shared.NewTargetNotFoundError(d.id, target)
	}
	if d.position.DistanceTo(snap.Position) > d.deliveryRange {
		return shared.NewDivisionError("target out of delivery range", target)
	}
	return nil
}

// Ingest merges relayed snapshots into memory
func (d *Division) Ingest(snapshots []*intel.RememberedDivision, t shared.Tick) {
	clock := t.Clock
	if clock == nil {
		clock = shared.NewLogicalClock(t.Now, 0)
	}
	for _, s := range snapshots {
		d.UpdateRememberedDivision(s, clock)
	}
}

// MemorySnapshots returns every remembered snapshot
func (d *Division) MemorySnapshots() []*intel.RememberedDivision {
	return d.memory.Snapshots()
}

// CarriesPayload reports whether a courier still holds orders it has not
// handed over
func (d *Division) CarriesPayload() bool {
	orders := d.queue.Pending()
	if o := d.queue.Ongoing(); o != nil {
		orders = append(orders, o)
	}
	for _, o := range orders {
		if dl, ok := o.(*order.Deliver); ok && !dl.Delivered() {
			return true
		}
	}
	return false
}
