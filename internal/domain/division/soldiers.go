package division

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// RecalculateAggregateValues recomputes every derived stat from the
// current soldiers and the terrain cost at the division's position
func (d *Division) RecalculateAggregateValues() {
	d.stats = soldier.Aggregate(d.soldiers, d.terrain.MovementCost(d.position))
}

// ApplyDamage spreads total damage over the soldiers front to back, removes
// the dead and recomputes aggregates. It reports whether no soldier is left;
// eliminating the division is then up to the attacker's side.
func (d *Division) ApplyDamage(total float64) bool {
	if d.destroyed {
		return false
	}
	remaining := total
	for _, s := range d.soldiers {
		if remaining <= 0 {
			break
		}
		take := remaining
		if take > s.Health {
			take = s.Health
		}
		s.TakeDamage(take)
		remaining -= take
	}

	alive := d.soldiers[:0]
	for _, s := range d.soldiers {
		if !s.IsDead() {
			alive = append(alive, s)
		}
	}
	for i := len(alive); i < len(d.soldiers); i++ {
		d.soldiers[i] = nil
	}
	d.soldiers = alive
	d.RecalculateAggregateValues()

	return len(d.soldiers) == 0
}

// TransferSoldiers moves troops into the division and empties the source
func (d *Division) TransferSoldiers(troops *[]*soldier.Soldier) {
	if troops == nil || len(*troops) == 0 {
		return
	}
	d.soldiers = append(d.soldiers, *troops...)
	*troops = nil
	d.RecalculateAggregateValues()
}

// TakeSoldiers hands over every soldier, leaving the division empty
func (d *Division) TakeSoldiers() []*soldier.Soldier {
	out := d.soldiers
	d.soldiers = nil
	d.RecalculateAggregateValues()
	return out
}

// PopSoldier removes and returns the last soldier. The last remaining
// soldier is never popped.
func (d *Division) PopSoldier() (*soldier.Soldier, error) {
	if len(d.soldiers) <= 1 {
		return nil, shared.NewInsufficientSoldierCountError(d.id, len(d.soldiers))
	}
	last := len(d.soldiers) - 1
	s := d.soldiers[last]
	d.soldiers[last] = nil
	d.soldiers = d.soldiers[:last]
	d.RecalculateAggregateValues()
	return s, nil
}

// TryCreateNewDivision splits one soldier off into a child division
// commanded by this one. The child starts with a copy of this division's
// memory plus a fresh snapshot of its parent, and is announced through a
// SpawnEffect. Reports false when only one soldier is left.
func (d *Division) TryCreateNewDivision(clock *shared.LogicalClock) (*Division, bool) {
	s, err := d.PopSoldier()
	if err != nil {
		return nil, false
	}
	child := New(Params{
		Team:          d.team,
		Commander:     d.id,
		Position:      d.position,
		Soldiers:      []*soldier.Soldier{s},
		Terrain:       d.terrain,
		Damage:        d.damage,
		TieBreak:      d.memory.TieBreak(),
		DeliveryRange: d.deliveryRange,
	})
	child.name = d.name + "/" + child.id.String()
	d.AddSubordinate(child.id)

	child.memory = d.memory.Clone()
	child.memory.Update(d.Describe(clock.Stamp()))
	d.memory.Update(child.Describe(clock.Stamp()))

	d.emit(SpawnEffect{From: d.id, Child: child})
	d.record(EventDivisionSpawned, clock.Now(), child.id, "")
	return child, true
}

// Recruit adds one soldier minted from the template
func (d *Division) Recruit(t soldier.Template) error {
	if d.destroyed {
		return shared.NewDivisionDestroyedError(d.id)
	}
	s, err := t.New()
	if err != nil {
		return err
	}
	d.soldiers = append(d.soldiers, s)
	d.RecalculateAggregateValues()
	return nil
}
