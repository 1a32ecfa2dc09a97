package intel

import (
	"sort"

	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// MotionModel lets an order describe where its host will be after elapsed
// game seconds. Snapshots keep the model of the order that was running when
// they were taken so a remembered division can be extrapolated along its
// actual plan instead of a straight line.
type MotionModel interface {
	PredictPosition(from shared.Position, speed float64, elapsed float64) shared.Position
}

// RememberedDivision is a timestamped, possibly stale copy of a division.
//
// Invariants:
//   - Fields are never mutated after construction; the With* and Tombstone
//     methods return modified copies
//   - Subordinates is sorted and free of duplicates
//   - A tombstoned snapshot never becomes alive again through its own methods
type RememberedDivision struct {
	ID           shared.DivisionID
	Team         shared.TeamID
	Commander    shared.DivisionID
	Subordinates []shared.DivisionID
	Position     shared.Position
	Velocity     shared.Position
	Speed        float64
	Stats        soldier.Stats
	SoldierCount int
	TimeStamp    shared.SimTime
	Destroyed    bool
	Motion       MotionModel
}

// NewRememberedDivision builds a snapshot, normalizing the subordinate list
func NewRememberedDivision(
	id shared.DivisionID,
	team shared.TeamID,
	commander shared.DivisionID,
	subordinates []shared.DivisionID,
	position shared.Position,
	velocity shared.Position,
	stats soldier.Stats,
	stamp shared.SimTime,
	destroyed bool,
	motion MotionModel,
) *RememberedDivision {
	return &RememberedDivision{
		ID:           id,
		Team:         team,
		Commander:    commander,
		Subordinates: normalizeIDs(subordinates),
		Position:     position,
		Velocity:     velocity,
		Speed:        stats.AverageSpeed,
		Stats:        stats,
		SoldierCount: stats.Count,
		TimeStamp:    stamp,
		Destroyed:    destroyed,
		Motion:       motion,
	}
}

// IsRoot reports whether the division commanded itself when captured
func (r *RememberedDivision) IsRoot() bool {
	return r.Commander == r.ID
}

// HasSubordinate reports whether id was a direct subordinate when captured
func (r *RememberedDivision) HasSubordinate(id shared.DivisionID) bool {
	i := sort.Search(len(r.Subordinates), func(i int) bool { return r.Subordinates[i] >= id })
	return i < len(r.Subordinates) && r.Subordinates[i] == id
}

// PredictedPosition extrapolates where the division should be at now.
func (r *RememberedDivision) PredictedPosition(now shared.SimTime) shared.Position {
	if r.Destroyed {
		return r.Position
	}
	elapsed := now.Sub(r.TimeStamp)
	if elapsed <= 0 {
		return r.Position
	}
	if r.Motion != nil {
		return r.Motion.PredictPosition(r.Position, r.Speed, elapsed)
	}
	return r.Position.Add(r.Velocity.Scale(elapsed))
}

// WithCommander returns a copy re-parented under commander and stamped newer
func (r *RememberedDivision) WithCommander(commander shared.DivisionID, stamp shared.SimTime) *RememberedDivision {
	c := r.clone()
	c.Commander = commander
	c.TimeStamp = stamp
	return c
}

// WithSubordinate returns a copy listing id as a direct subordinate.
// The timestamp is kept: this is local enrichment, not a new observation.
func (r *RememberedDivision) WithSubordinate(id shared.DivisionID) *RememberedDivision {
	if r.HasSubordinate(id) {
		return r
	}
	c := r.clone()
	c.Subordinates = normalizeIDs(append(c.Subordinates, id))
	return c
}

// Tombstone returns a destroyed copy stamped newer
func (r *RememberedDivision) Tombstone(stamp shared.SimTime) *RememberedDivision {
	c := r.clone()
	c.Destroyed = true
	c.Velocity = shared.Position{}
	c.Motion = nil
	c.TimeStamp = stamp
	return c
}

func (r *RememberedDivision) clone() *RememberedDivision {
	c := *r
	c.Subordinates = append([]shared.DivisionID(nil), r.Subordinates...)
	return &c
}

func normalizeIDs(ids []shared.DivisionID) []shared.DivisionID {
	if len(ids) == 0 {
		return nil
	}
	out := append([]shared.DivisionID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	w := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[w-1] {
			out[w] = out[i]
			w++
		}
	}
	return out[:w]
}
