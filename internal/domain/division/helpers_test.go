package division

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

func newTestDivision(t *testing.T, team shared.TeamID, soldiers int, pos shared.Position) *Division {
	t.Helper()
	troops, err := soldier.DefaultTemplate.NewMany(soldiers)
	require.NoError(t, err)
	return New(Params{Team: team, Position: pos, Soldiers: troops})
}

// remember stores a snapshot of id claiming commander and subordinates
func remember(d *Division, id, commander shared.DivisionID, stamp shared.SimTime, subs ...shared.DivisionID) *intel.RememberedDivision {
	snap := intel.NewRememberedDivision(id, d.team, commander, subs, shared.Position{}, shared.Position{},
		soldier.Stats{Count: 1}, stamp, false, nil)
	d.memory.Update(snap)
	return snap
}

func newClock() *shared.LogicalClock {
	return shared.NewLogicalClock(10, 0)
}

func tick(clock *shared.LogicalClock) shared.Tick {
	return shared.NewTick(clock, 1, false)
}

func effectsOf[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
