package intel_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

func snapshot(id shared.DivisionID, stamp shared.SimTime) *intel.RememberedDivision {
	return intel.NewRememberedDivision(id, 1, id, nil, shared.Position{}, shared.Position{},
		soldier.Stats{Count: 1}, stamp, false, nil)
}

func TestMemory_UpdateKeepsNewest(t *testing.T) {
	m := intel.NewMemory("")

	assert.True(t, m.Update(snapshot(7, 1)))
	assert.True(t, m.Update(snapshot(7, 3)))
	assert.False(t, m.Update(snapshot(7, 2)), "older snapshot must not overwrite")

	got, ok := m.Get(7)
	require.True(t, ok)
	assert.Equal(t, shared.SimTime(3), got.TimeStamp)
}

func TestMemory_TimestampNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := intel.NewMemory(intel.TieBreakKeepExisting)
	var last shared.SimTime

	for i := 0; i < 500; i++ {
		m.Update(snapshot(1, shared.SimTime(rng.Intn(100))))
		got, _ := m.Get(1)
		assert.GreaterOrEqual(t, float64(got.TimeStamp), float64(last))
		last = got.TimeStamp
	}
}

func TestMemory_TieBreakPolicies(t *testing.T) {
	alive := snapshot(4, 10)
	dead := snapshot(4, 10).Tombstone(10)

	tests := []struct {
		name      string
		policy    intel.TieBreakPolicy
		first     *intel.RememberedDivision
		second    *intel.RememberedDivision
		wantDead  bool
		wantSwaps bool
	}{
		{"tombstone wins over alive", intel.TieBreakPreferTombstone, alive, dead, true, true},
		{"alive does not revive tombstone", intel.TieBreakPreferTombstone, dead, alive, true, false},
		{"keep existing", intel.TieBreakKeepExisting, alive, dead, false, false},
		{"prefer incoming", intel.TieBreakPreferIncoming, dead, alive, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := intel.NewMemory(tt.policy)
			m.Update(tt.first)
			changed := m.Update(tt.second)
			got, _ := m.Get(4)
			assert.Equal(t, tt.wantSwaps, changed)
			assert.Equal(t, tt.wantDead, got.Destroyed)
		})
	}
}

func TestParseTieBreakPolicy(t *testing.T) {
	p, err := intel.ParseTieBreakPolicy("")
	require.NoError(t, err)
	assert.Equal(t, intel.DefaultTieBreak, p)

	_, err = intel.ParseTieBreakPolicy("coin_flip")
	assert.Error(t, err)
}

func TestMemory_CloneIsIndependent(t *testing.T) {
	m := intel.NewMemory("")
	m.Update(snapshot(1, 1))
	c := m.Clone()
	c.Update(snapshot(2, 1))

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []shared.DivisionID{1, 2}, c.IDs())
}

func TestRememberedDivision_CopyOnWrite(t *testing.T) {
	orig := snapshot(3, 5)
	withSub := orig.WithSubordinate(9).WithSubordinate(2).WithSubordinate(9)
	reparented := orig.WithCommander(11, 6)
	dead := orig.Tombstone(7)

	assert.Empty(t, orig.Subordinates)
	assert.Equal(t, []shared.DivisionID{2, 9}, withSub.Subordinates)
	assert.Equal(t, shared.SimTime(5), withSub.TimeStamp)
	assert.True(t, withSub.HasSubordinate(9))

	assert.Equal(t, shared.DivisionID(3), orig.Commander)
	assert.Equal(t, shared.DivisionID(11), reparented.Commander)
	assert.Equal(t, shared.SimTime(6), reparented.TimeStamp)

	assert.False(t, orig.Destroyed)
	assert.True(t, dead.Destroyed)
}

type straightLine struct{ to shared.Position }

func (s straightLine) PredictPosition(from shared.Position, speed, elapsed float64) shared.Position {
	p, _ := from.MoveToward(s.to, speed*elapsed)
	return p
}

func TestRememberedDivision_PredictedPosition(t *testing.T) {
	stats := soldier.Stats{Count: 1, AverageSpeed: 2}

	drifting := intel.NewRememberedDivision(1, 1, 1, nil, shared.NewPosition(0, 0),
		shared.NewPosition(1, 0), stats, 10, false, nil)
	assert.Equal(t, shared.NewPosition(5, 0), drifting.PredictedPosition(15))
	assert.Equal(t, shared.NewPosition(0, 0), drifting.PredictedPosition(5), "no prediction backwards in time")

	planned := intel.NewRememberedDivision(1, 1, 1, nil, shared.NewPosition(0, 0),
		shared.NewPosition(1, 0), stats, 10, false, straightLine{to: shared.NewPosition(0, 100)})
	assert.Equal(t, shared.NewPosition(0, 10), planned.PredictedPosition(15))

	dead := drifting.Tombstone(11)
	assert.Equal(t, shared.NewPosition(0, 0), dead.PredictedPosition(50))
}
