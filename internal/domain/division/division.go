package division

import (
	"sort"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// Params configures a freshly created division
type Params struct {
	Name      string
	Team      shared.TeamID
	Commander shared.DivisionID // zero means self-commanding
	Position  shared.Position
	Soldiers  []*soldier.Soldier

	Terrain       TerrainCostProvider
	Damage        DamageModel
	TieBreak      intel.TieBreakPolicy
	DeliveryRange float64
}

// Division is a unit of soldiers with its own orders, memory and place in
// the command tree.
//
// Invariants:
//   - stats always reflect the current soldiers (recomputed on every change)
//   - at most one foreground order is ongoing
//   - a division never mutates another division; cross-division changes are
//     emitted as effects
type Division struct {
	id        shared.DivisionID
	name      string
	team      shared.TeamID
	commander shared.DivisionID

	subordinates map[shared.DivisionID]struct{}
	soldiers     []*soldier.Soldier
	stats        soldier.Stats

	queue      order.Queue
	background order.Background

	position  shared.Position
	velocity  shared.Position
	destroyed bool
	courier   bool

	memory  *intel.Memory
	visible map[shared.DivisionID]*intel.RememberedDivision

	terrain       TerrainCostProvider
	damage        DamageModel
	deliveryRange float64

	effects []Effect
	events  []Event
}

// New creates a division with a fresh id. It commands itself unless
// Params.Commander says otherwise.
func New(p Params) *Division {
	d := &Division{
		id:            shared.NextDivisionID(),
		name:          p.Name,
		team:          p.Team,
		subordinates:  make(map[shared.DivisionID]struct{}),
		soldiers:      append([]*soldier.Soldier(nil), p.Soldiers...),
		position:      p.Position,
		memory:        intel.NewMemory(p.TieBreak),
		visible:       make(map[shared.DivisionID]*intel.RememberedDivision),
		terrain:       p.Terrain,
		damage:        p.Damage,
		deliveryRange: p.DeliveryRange,
	}
	if d.terrain == nil {
		d.terrain = flatTerrain{}
	}
	if d.damage == nil {
		d.damage = sustainedFire{}
	}
	if d.deliveryRange <= 0 {
		d.deliveryRange = order.DefaultDeliveryRange
	}
	d.commander = d.id
	if !p.Commander.IsZero() {
		d.commander = p.Commander
	}
	if d.name == "" {
		d.name = d.id.String()
	}
	d.RecalculateAggregateValues()
	return d
}

// CloneForHandoff builds a new controller object for src under the same
// id. Orders, subordinates, soldiers and memory move to the clone; src must
// be discarded afterwards.
func CloneForHandoff(src *Division) *Division {
	d := &Division{
		id:            src.id,
		name:          src.name,
		team:          src.team,
		commander:     src.commander,
		subordinates:  make(map[shared.DivisionID]struct{}, len(src.subordinates)),
		soldiers:      append([]*soldier.Soldier(nil), src.soldiers...),
		queue:         src.queue.Clone(),
		background:    src.background.Clone(),
		position:      src.position,
		velocity:      src.velocity,
		destroyed:     src.destroyed,
		courier:       src.courier,
		memory:        src.memory.Clone(),
		visible:       make(map[shared.DivisionID]*intel.RememberedDivision, len(src.visible)),
		terrain:       src.terrain,
		damage:        src.damage,
		deliveryRange: src.deliveryRange,
	}
	for id := range src.subordinates {
		d.subordinates[id] = struct{}{}
	}
	for id, snap := range src.visible {
		d.visible[id] = snap
	}
	d.RecalculateAggregateValues()
	return d
}

// Getters

func (d *Division) ID() shared.DivisionID        { return d.id }
func (d *Division) Name() string                 { return d.name }
func (d *Division) Team() shared.TeamID          { return d.team }
func (d *Division) Commander() shared.DivisionID { return d.commander }
func (d *Division) Position() shared.Position    { return d.position }
func (d *Division) Velocity() shared.Position    { return d.velocity }
func (d *Division) Stats() soldier.Stats         { return d.stats }
func (d *Division) IsDestroyed() bool            { return d.destroyed }
func (d *Division) IsCourier() bool              { return d.courier }
func (d *Division) Memory() *intel.Memory        { return d.memory }
func (d *Division) Queue() *order.Queue          { return &d.queue }
func (d *Division) Background() *order.Background {
	return &d.background
}

// IsRoot reports whether the division commands itself
func (d *Division) IsRoot() bool {
	return d.commander == d.id
}

// SoldierCount returns the number of soldiers
func (d *Division) SoldierCount() int {
	return len(d.soldiers)
}

// Soldiers returns a copy of the soldier list
func (d *Division) Soldiers() []*soldier.Soldier {
	return append([]*soldier.Soldier(nil), d.soldiers...)
}

// Subordinates returns the direct subordinates in ascending id order
func (d *Division) Subordinates() []shared.DivisionID {
	ids := make([]shared.DivisionID, 0, len(d.subordinates))
	for id := range d.subordinates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasSubordinate reports whether id is a direct subordinate
func (d *Division) HasSubordinate(id shared.DivisionID) bool {
	_, ok := d.subordinates[id]
	return ok
}

// AddSubordinate records id as a direct subordinate (idempotent)
func (d *Division) AddSubordinate(id shared.DivisionID) {
	if id == d.id {
		return
	}
	d.subordinates[id] = struct{}{}
}

// RemoveSubordinate drops id from the direct subordinates
func (d *Division) RemoveSubordinate(id shared.DivisionID) {
	delete(d.subordinates, id)
}

// SetPosition places the division, as when spawned by a scenario
func (d *Division) SetPosition(p shared.Position) {
	d.position = p
	d.RecalculateAggregateValues()
}

// Reassign makes commander the division's commander, provided its current
// commander is still previous. Reports whether anything changed.
func (d *Division) Reassign(commander, previous shared.DivisionID) bool {
	if d.destroyed || d.commander != previous || commander == previous {
		return false
	}
	d.commander = commander
	return true
}

// SetCommander unconditionally re-parents the division
func (d *Division) SetCommander(commander shared.DivisionID) {
	d.commander = commander
}

// MarkDestroyed tombstones the live division. Its orders are dropped
// without running End: nothing remains to execute them.
func (d *Division) MarkDestroyed() {
	d.destroyed = true
	d.velocity = shared.Position{}
	d.queue = order.Queue{}
	d.background = order.Background{}
	d.visible = make(map[shared.DivisionID]*intel.RememberedDivision)
}

// ReceiveOrders files orders into the foreground queue or the background
// set according to each order's Background flag
func (d *Division) ReceiveOrders(orders []order.Order) {
	for _, o := range orders {
		if o == nil {
			continue
		}
		if o.Meta().CommanderSendingOrderID.IsZero() {
			o.Meta().CommanderSendingOrderID = d.id
		}
		if o.Meta().Background {
			d.background.Add(o)
		} else {
			d.queue.Enqueue(o)
		}
	}
}

// Describe captures the division as a snapshot stamped at stamp
func (d *Division) Describe(stamp shared.SimTime) *intel.RememberedDivision {
	var motion intel.MotionModel
	if m, ok := d.queue.Ongoing().(intel.MotionModel); ok && d.velocity != (shared.Position{}) {
		motion = m
	}
	return intel.NewRememberedDivision(
		d.id, d.team, d.commander, d.Subordinates(),
		d.position, d.velocity, d.stats, stamp, d.destroyed, motion,
	)
}

// DrainEffects returns and clears the pending effects
func (d *Division) DrainEffects() []Effect {
	out := d.effects
	d.effects = nil
	return out
}

// DrainEvents returns and clears the pending events
func (d *Division) DrainEvents() []Event {
	out := d.events
	d.events = nil
	return out
}

func (d *Division) emit(e Effect) {
	d.effects = append(d.effects, e)
}

func (d *Division) record(t EventType, at shared.SimTime, other shared.DivisionID, detail string) {
	d.events = append(d.events, Event{Type: t, At: at, Division: d.id, Other: other, Detail: detail})
}
