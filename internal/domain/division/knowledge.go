package division

import (
	"sort"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Sighting is one peer in sight during a visibility refresh: a fresh
// snapshot of it and, for allies, the peer's memory as frozen at the
// start of the refresh.
type Sighting struct {
	Snapshot *intel.RememberedDivision
	Relay    []*intel.RememberedDivision
}

// Observe replaces the visible set and ingests direct observations first,
// then the relayed memories of allies. Relays are one hop only: the caller
// hands in memories frozen before anyone ingested anything this tick.
func (d *Division) Observe(sightings []Sighting, clock *shared.LogicalClock) {
	d.visible = make(map[shared.DivisionID]*intel.RememberedDivision, len(sightings))
	if d.destroyed {
		return
	}
	for _, s := range sightings {
		if s.Snapshot == nil || s.Snapshot.ID == d.id {
			continue
		}
		d.visible[s.Snapshot.ID] = s.Snapshot
		d.UpdateRememberedDivision(s.Snapshot, clock)
	}
	for _, s := range sightings {
		if s.Snapshot == nil || s.Snapshot.Team != d.team {
			continue
		}
		for _, r := range s.Relay {
			d.UpdateRememberedDivision(r, clock)
		}
	}
}

// UpdateRememberedDivision merges snap into memory by last-writer-wins and
// then repairs the command tree around the kept snapshot. Reports whether
// the stored snapshot changed.
func (d *Division) UpdateRememberedDivision(snap *intel.RememberedDivision, clock *shared.LogicalClock) bool {
	if snap == nil || snap.ID == d.id {
		return false
	}
	changed := d.memory.Update(snap)
	if kept, ok := d.memory.Get(snap.ID); ok {
		d.maintainTree(kept, clock)
	}
	return changed
}

// maintainTree applies the orphan-repair rules for a snapshot of ally x
// claiming commander c:
//  1. c is this division: x is a direct subordinate
//  2. c is known and alive: x is recorded under c
//  3. c is known and destroyed: x is re-parented under this division with a
//     newer stamp, and x itself is told through a ReassignEffect
//  4. c is unknown: nothing is inferred
func (d *Division) maintainTree(x *intel.RememberedDivision, clock *shared.LogicalClock) {
	if x.Team != d.team {
		return
	}
	if x.Destroyed || x.IsRoot() {
		d.RemoveSubordinate(x.ID)
		return
	}

	c := x.Commander
	if c == d.id {
		d.AddSubordinate(x.ID)
		return
	}
	d.RemoveSubordinate(x.ID)

	commander, known := d.memory.Get(c)
	if !known {
		return
	}
	if !commander.Destroyed {
		d.memory.Put(commander.WithSubordinate(x.ID))
		return
	}

	if d.commandedBy(x.ID) {
		// adopting one of our own commanders would close a loop
		return
	}
	stamp := clock.Stamp()
	d.memory.Update(x.WithCommander(d.id, stamp))
	d.AddSubordinate(x.ID)
	d.emit(ReassignEffect{Observer: d.id, Subject: x.ID, Previous: c, Stamp: stamp})
	d.record(EventCommanderReassigned, stamp, x.ID, "orphaned by "+c.String())
}

// commandedBy reports whether id sits above this division in the known tree
func (d *Division) commandedBy(id shared.DivisionID) bool {
	for _, above := range d.pathToRoot()[1:] {
		if above == id {
			return true
		}
	}
	return false
}

// RecordDestruction writes a fresh tombstone for id into memory, provided
// a living copy of it is held. Reports whether a tombstone was written.
func (d *Division) RecordDestruction(id shared.DivisionID, clock *shared.LogicalClock) bool {
	snap, ok := d.memory.Get(id)
	if !ok || snap.Destroyed {
		return false
	}
	return d.UpdateRememberedDivision(snap.Tombstone(clock.Stamp()), clock)
}

// FixCommanders merges the command trees of two self-commanding allies that
// see each other. The one with fewer soldiers becomes the other's
// subordinate; on equal counts the lower id yields. Only the new edge is
// written into both memories now; the rest of their knowledge converges
// through gossip on later ticks. Returns the subordinate and its new
// commander, or ok=false when the pair does not qualify.
func FixCommanders(a, b *Division, clock *shared.LogicalClock) (sub, sup *Division, ok bool) {
	if a == nil || b == nil || a.id == b.id || a.team != b.team {
		return nil, nil, false
	}
	if a.destroyed || b.destroyed || !a.IsRoot() || !b.IsRoot() {
		return nil, nil, false
	}
	if _, seen := a.visible[b.id]; !seen {
		return nil, nil, false
	}
	if _, seen := b.visible[a.id]; !seen {
		return nil, nil, false
	}

	sub, sup = a, b
	switch {
	case a.SoldierCount() > b.SoldierCount():
		sub, sup = b, a
	case a.SoldierCount() == b.SoldierCount() && a.id > b.id:
		sub, sup = b, a
	}

	sub.commander = sup.id
	sub.RemoveSubordinate(sup.id)
	sup.AddSubordinate(sub.id)
	sup.memory.Update(sub.Describe(clock.Stamp()))
	sub.memory.Update(sup.Describe(clock.Stamp()))
	sup.record(EventCommandMerged, clock.Now(), sub.id, "")
	return sub, sup, true
}

func sortedKeys[V any](m map[shared.DivisionID]V) []shared.DivisionID {
	ids := make([]shared.DivisionID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
