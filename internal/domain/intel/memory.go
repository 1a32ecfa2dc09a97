package intel

import (
	"sort"

	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Memory maps division ids to the newest snapshot known to one observer.
//
// Merge rule: last writer wins by TimeStamp. The kept timestamp for an id
// never decreases. Equal timestamps go through the TieBreakPolicy.
type Memory struct {
	entries  map[shared.DivisionID]*RememberedDivision
	tieBreak TieBreakPolicy
}

// NewMemory creates an empty memory using the given tie-break policy
func NewMemory(policy TieBreakPolicy) *Memory {
	if policy == "" {
		policy = DefaultTieBreak
	}
	return &Memory{
		entries:  make(map[shared.DivisionID]*RememberedDivision),
		tieBreak: policy,
	}
}

// TieBreak returns the configured policy
func (m *Memory) TieBreak() TieBreakPolicy {
	return m.tieBreak
}

// Update merges incoming and reports whether the stored entry changed.
func (m *Memory) Update(incoming *RememberedDivision) bool {
	if incoming == nil {
		return false
	}
	existing, ok := m.entries[incoming.ID]
	if !ok {
		m.entries[incoming.ID] = incoming
		return true
	}
	if existing == incoming {
		return false
	}
	switch {
	case incoming.TimeStamp > existing.TimeStamp:
		m.entries[incoming.ID] = incoming
		return true
	case incoming.TimeStamp < existing.TimeStamp:
		return false
	default:
		if m.tieBreak.replace(existing, incoming) {
			m.entries[incoming.ID] = incoming
			return true
		}
		return false
	}
}

// Put stores snap unconditionally. Only local enrichment that keeps the
// same timestamp (subordinate bookkeeping) goes through here.
func (m *Memory) Put(snap *RememberedDivision) {
	m.entries[snap.ID] = snap
}

// Get returns the snapshot for id
func (m *Memory) Get(id shared.DivisionID) (*RememberedDivision, bool) {
	r, ok := m.entries[id]
	return r, ok
}

// Knows reports whether any snapshot exists for id
func (m *Memory) Knows(id shared.DivisionID) bool {
	_, ok := m.entries[id]
	return ok
}

// Len returns the number of remembered divisions
func (m *Memory) Len() int {
	return len(m.entries)
}

// IDs returns every remembered id in ascending order
func (m *Memory) IDs() []shared.DivisionID {
	ids := make([]shared.DivisionID, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshots returns every snapshot ordered by id
func (m *Memory) Snapshots() []*RememberedDivision {
	ids := m.IDs()
	out := make([]*RememberedDivision, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entries[id])
	}
	return out
}

// Clone returns a shallow copy. Snapshots are copy-on-write, so sharing
// the pointers is safe.
func (m *Memory) Clone() *Memory {
	c := &Memory{
		entries:  make(map[shared.DivisionID]*RememberedDivision, len(m.entries)),
		tieBreak: m.tieBreak,
	}
	for id, r := range m.entries {
		c.entries[id] = r
	}
	return c
}
