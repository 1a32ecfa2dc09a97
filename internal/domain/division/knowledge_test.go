package division

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

func sight(peer *Division, stamp shared.SimTime, relay bool) Sighting {
	s := Sighting{Snapshot: peer.Describe(stamp)}
	if relay {
		s.Relay = peer.Memory().Snapshots()
	}
	return s
}

func TestObserve_DirectAndOneHopRelay(t *testing.T) {
	clock := newClock()
	observer := newTestDivision(t, 1, 2, shared.Position{})
	ally := newTestDivision(t, 1, 2, shared.NewPosition(1, 0))
	far := newTestDivision(t, 1, 2, shared.NewPosition(500, 0))
	ally.UpdateRememberedDivision(far.Describe(clock.Stamp()), clock)

	observer.Observe([]Sighting{sight(ally, clock.Stamp(), true)}, clock)

	_, visible := observer.LookupVisible(ally.ID())
	assert.True(t, visible)
	assert.True(t, observer.Memory().Knows(ally.ID()))
	assert.True(t, observer.Memory().Knows(far.ID()), "relayed through the ally")
	_, farVisible := observer.LookupVisible(far.ID())
	assert.False(t, farVisible)
}

func TestObserve_EnemiesAreSeenButNotRelayed(t *testing.T) {
	clock := newClock()
	observer := newTestDivision(t, 1, 2, shared.Position{})
	enemy := newTestDivision(t, 2, 2, shared.NewPosition(1, 0))
	hidden := newTestDivision(t, 2, 2, shared.NewPosition(800, 0))
	enemy.UpdateRememberedDivision(hidden.Describe(clock.Stamp()), clock)

	observer.Observe([]Sighting{sight(enemy, clock.Stamp(), true)}, clock)

	assert.True(t, observer.Memory().Knows(enemy.ID()))
	assert.False(t, observer.Memory().Knows(hidden.ID()))
	assert.Len(t, observer.VisibleEnemies(), 1)
}

func TestUpdateRememberedDivision_TimestampNeverDecreases(t *testing.T) {
	clock := newClock()
	d := newTestDivision(t, 1, 1, shared.Position{})
	peer := newTestDivision(t, 1, 1, shared.Position{})
	newer := peer.Describe(20)
	older := peer.Describe(15)

	assert.True(t, d.UpdateRememberedDivision(newer, clock))
	assert.False(t, d.UpdateRememberedDivision(older, clock))

	kept, ok := d.Memory().Get(peer.ID())
	require.True(t, ok)
	assert.Equal(t, shared.SimTime(20), kept.TimeStamp)
}

func TestUpdateRememberedDivision_IgnoresSelf(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})

	assert.False(t, d.UpdateRememberedDivision(d.Describe(1), newClock()))
	assert.Zero(t, d.Memory().Len())
}

func TestTreeRule1_ClaimedSubordinateIsAdded(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	x := intel.NewRememberedDivision(500, 1, d.ID(), nil, shared.Position{}, shared.Position{}, d.Stats(), 1, false, nil)

	d.UpdateRememberedDivision(x, newClock())
	d.UpdateRememberedDivision(x, newClock())

	assert.Equal(t, []shared.DivisionID{500}, d.Subordinates())
}

func TestTreeRule2_EdgeIsRecordedUnderLivingCommander(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	remember(d, 600, 600, 1)
	x := intel.NewRememberedDivision(601, 1, 600, nil, shared.Position{}, shared.Position{}, d.Stats(), 2, false, nil)

	d.UpdateRememberedDivision(x, newClock())

	c, _ := d.Memory().Get(600)
	assert.True(t, c.HasSubordinate(601))
	assert.Equal(t, shared.SimTime(1), c.TimeStamp, "enrichment keeps the commander's stamp")
	assert.Empty(t, d.Subordinates())
}

func TestTreeRule3_OrphanIsReparentedUnderObserver(t *testing.T) {
	clock := newClock()
	d := newTestDivision(t, 1, 1, shared.Position{})
	dead := remember(d, 700, 700, 3, 701)
	d.memory.Update(dead.Tombstone(4))
	x := intel.NewRememberedDivision(701, 1, 700, nil, shared.Position{}, shared.Position{}, d.Stats(), 2, false, nil)

	d.UpdateRememberedDivision(x, clock)

	kept, _ := d.Memory().Get(701)
	assert.Equal(t, d.ID(), kept.Commander)
	assert.Greater(t, kept.TimeStamp, shared.SimTime(4), "newer than the commander's last known state")
	assert.True(t, d.HasSubordinate(701))

	reassign := effectsOf[ReassignEffect](d.DrainEffects())
	require.Len(t, reassign, 1)
	assert.Equal(t, ReassignEffect{Observer: d.ID(), Subject: 701, Previous: 700, Stamp: kept.TimeStamp}, reassign[0])
}

func TestTreeRule4_UnknownCommanderChangesNothing(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	x := intel.NewRememberedDivision(801, 1, 800, nil, shared.Position{}, shared.Position{}, d.Stats(), 2, false, nil)

	d.UpdateRememberedDivision(x, newClock())

	kept, _ := d.Memory().Get(801)
	assert.Equal(t, shared.DivisionID(800), kept.Commander)
	assert.False(t, d.Memory().Knows(800))
	assert.Empty(t, d.Subordinates())
	assert.Empty(t, d.DrainEffects())
}

func TestRecordDestruction_TombstonesAndDropsSubordinate(t *testing.T) {
	clock := newClock()
	d := newTestDivision(t, 1, 1, shared.Position{})
	remember(d, 900, d.ID(), 1)
	d.UpdateRememberedDivision(mustGet(t, d, 900), clock)
	require.True(t, d.HasSubordinate(900))

	assert.True(t, d.RecordDestruction(900, clock))
	assert.False(t, d.RecordDestruction(900, clock), "already tombstoned")

	kept := mustGet(t, d, 900)
	assert.True(t, kept.Destroyed)
	assert.False(t, d.HasSubordinate(900))
}

func TestFixCommanders_SmallerSubordinatesToLarger(t *testing.T) {
	clock := newClock()
	a := newTestDivision(t, 1, 5, shared.Position{})
	b := newTestDivision(t, 1, 10, shared.NewPosition(1, 0))
	a.Observe([]Sighting{sight(b, clock.Stamp(), true)}, clock)
	b.Observe([]Sighting{sight(a, clock.Stamp(), true)}, clock)

	sub, sup, ok := FixCommanders(a, b, clock)

	require.True(t, ok)
	assert.Same(t, a, sub)
	assert.Same(t, b, sup)
	assert.Equal(t, b.ID(), a.Commander())
	assert.Contains(t, b.Subordinates(), a.ID())
	snap := mustGet(t, b, a.ID())
	assert.Equal(t, b.ID(), snap.Commander)
}

func TestFixCommanders_TieGoesToHigherID(t *testing.T) {
	clock := newClock()
	a := newTestDivision(t, 1, 3, shared.Position{})
	b := newTestDivision(t, 1, 3, shared.Position{})
	a.Observe([]Sighting{sight(b, clock.Stamp(), false)}, clock)
	b.Observe([]Sighting{sight(a, clock.Stamp(), false)}, clock)

	sub, sup, ok := FixCommanders(b, a, clock)

	require.True(t, ok)
	assert.Same(t, a, sub)
	assert.Same(t, b, sup)
}

func TestFixCommanders_RequiresMutualVisibilityAndSameTeam(t *testing.T) {
	clock := newClock()
	a := newTestDivision(t, 1, 3, shared.Position{})
	b := newTestDivision(t, 1, 6, shared.Position{})
	enemy := newTestDivision(t, 2, 6, shared.Position{})
	a.Observe([]Sighting{sight(b, clock.Stamp(), false), sight(enemy, clock.Stamp(), false)}, clock)
	enemy.Observe([]Sighting{sight(a, clock.Stamp(), false)}, clock)

	_, _, oneSided := FixCommanders(a, b, clock)
	_, _, enemies := FixCommanders(a, enemy, clock)

	assert.False(t, oneSided)
	assert.False(t, enemies)
	assert.True(t, a.IsRoot())
}

func mustGet(t *testing.T, d *Division, id shared.DivisionID) *intel.RememberedDivision {
	t.Helper()
	snap, ok := d.Memory().Get(id)
	require.True(t, ok)
	return snap
}

func TestTreeRule3_NeverAdoptsOwnCommander(t *testing.T) {
	clock := newClock()
	d := newTestDivision(t, 1, 1, shared.Position{})
	dead := remember(d, 1700, 1700, 3, 1701)
	d.memory.Update(dead.Tombstone(4))
	d.SetCommander(1701)
	x := intel.NewRememberedDivision(1701, 1, 1700, []shared.DivisionID{d.ID()}, shared.Position{}, shared.Position{}, d.Stats(), 5, false, nil)

	d.UpdateRememberedDivision(x, clock)

	assert.False(t, d.HasSubordinate(1701))
	assert.Empty(t, d.DrainEffects())
}
