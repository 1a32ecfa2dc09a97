package division

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

type halfSpeedTerrain struct{}

func (halfSpeedTerrain) MovementCost(shared.Position) float64 { return 0.5 }

func TestNew_IsSelfCommandingWithAggregates(t *testing.T) {
	d := newTestDivision(t, 1, 4, shared.NewPosition(1, 2))

	assert.True(t, d.IsRoot())
	assert.Equal(t, d.ID(), d.Commander())
	assert.Equal(t, 4, d.Stats().Count)
	assert.Equal(t, 400.0, d.Stats().TotalHealth)
	assert.Equal(t, soldier.DefaultTemplate.Speed, d.Stats().AverageSpeed)
}

func TestNew_IDsAreNeverReused(t *testing.T) {
	a := newTestDivision(t, 1, 1, shared.Position{})
	b := newTestDivision(t, 1, 1, shared.Position{})

	assert.Greater(t, b.ID(), a.ID())
}

func TestRecalculate_AppliesTerrainCost(t *testing.T) {
	troops, err := soldier.DefaultTemplate.NewMany(2)
	require.NoError(t, err)

	d := New(Params{Team: 1, Soldiers: troops, Terrain: halfSpeedTerrain{}})

	assert.InDelta(t, soldier.DefaultTemplate.Speed*0.5, d.Stats().AverageSpeed, 1e-9)
}

func TestPopSoldier_FailsOnLastSoldier(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})

	s, err := d.PopSoldier()

	assert.Nil(t, s)
	assert.ErrorIs(t, err, shared.ErrInsufficientSoldierCount)
	assert.Equal(t, 1, d.SoldierCount())
}

func TestTryCreateNewDivision_SplitsOneSoldierOff(t *testing.T) {
	parent := newTestDivision(t, 3, 5, shared.NewPosition(4, 4))
	clock := newClock()

	child, ok := parent.TryCreateNewDivision(clock)

	require.True(t, ok)
	assert.Equal(t, 4, parent.SoldierCount())
	assert.Equal(t, 4, parent.Stats().Count)
	assert.Equal(t, 1, child.SoldierCount())
	assert.Equal(t, parent.ID(), child.Commander())
	assert.Equal(t, parent.Team(), child.Team())
	assert.Equal(t, parent.Position(), child.Position())
	assert.True(t, parent.HasSubordinate(child.ID()))
	assert.True(t, child.Memory().Knows(parent.ID()), "child starts knowing its parent")

	spawns := effectsOf[SpawnEffect](parent.DrainEffects())
	require.Len(t, spawns, 1)
	assert.Same(t, child, spawns[0].Child)
}

func TestTryCreateNewDivision_ReportsFalseWithOneSoldier(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})

	child, ok := d.TryCreateNewDivision(newClock())

	assert.False(t, ok)
	assert.Nil(t, child)
	assert.Empty(t, d.DrainEffects())
}

func TestApplyDamage_RemovesDeadBeforeZeroCheck(t *testing.T) {
	d := newTestDivision(t, 1, 3, shared.Position{})

	eliminated := d.ApplyDamage(150)

	assert.False(t, eliminated)
	assert.Equal(t, 2, d.SoldierCount())
	assert.Equal(t, 150.0, d.Stats().TotalHealth)

	eliminated = d.ApplyDamage(1000)

	assert.True(t, eliminated)
	assert.Zero(t, d.SoldierCount())
	assert.Zero(t, d.Stats().Count)
}

func TestTransferSoldiers_EmptiesSource(t *testing.T) {
	d := newTestDivision(t, 1, 2, shared.Position{})
	troops, err := soldier.DefaultTemplate.NewMany(3)
	require.NoError(t, err)

	d.TransferSoldiers(&troops)

	assert.Nil(t, troops)
	assert.Equal(t, 5, d.SoldierCount())
	assert.Equal(t, 5, d.Stats().Count)
}

func TestCloneForHandoff_KeepsIdentityAndOrders(t *testing.T) {
	src := newTestDivision(t, 2, 3, shared.NewPosition(5, 5))
	src.AddSubordinate(99)
	move := order.NewMove(src.ID(), shared.NewPosition(9, 9))
	report := order.NewReport(src.ID(), 5)
	src.ReceiveOrders([]order.Order{move, report})
	remember(src, 77, 77, 1)

	clone := CloneForHandoff(src)

	assert.Equal(t, src.ID(), clone.ID())
	assert.Equal(t, []shared.DivisionID{99}, clone.Subordinates())
	assert.Equal(t, []order.Order{move}, clone.Queue().Pending())
	assert.Equal(t, []order.Order{report}, clone.Background().Orders())
	assert.Equal(t, 3, clone.SoldierCount())
	assert.True(t, clone.Memory().Knows(77))
}

func TestRecruit_AddsSoldier(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})

	require.NoError(t, d.Recruit(soldier.DefaultTemplate))

	assert.Equal(t, 2, d.Stats().Count)
}

func TestProcessOrders_MovesAtAggregateSpeed(t *testing.T) {
	d := newTestDivision(t, 1, 2, shared.Position{})
	d.ReceiveOrders([]order.Order{order.NewMove(d.ID(), shared.NewPosition(100, 0))})
	clock := newClock()

	d.ProcessOrders(tick(clock))

	assert.Equal(t, shared.NewPosition(soldier.DefaultTemplate.Speed, 0), d.Position())
	assert.Equal(t, shared.NewPosition(soldier.DefaultTemplate.Speed, 0), d.Velocity())

	snap := d.Describe(clock.Stamp())
	require.NotNil(t, snap.Motion, "a moving division exposes its order's motion model")
	assert.Equal(t, shared.NewPosition(100, 0), snap.PredictedPosition(snap.TimeStamp+1000))
}

func TestProcessOrders_RecordsOrderEnded(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	d.ReceiveOrders([]order.Order{order.NewWait(d.ID(), 0.5)})

	retired := d.ProcessOrders(tick(newClock()))

	require.Len(t, retired, 1)
	events := d.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventOrderEnded, events[0].Type)
}

func TestProcessOrders_OrderEndedCarriesRuntime(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	clock := newClock()
	d.ReceiveOrders([]order.Order{order.NewWait(d.ID(), 2)})

	assert.Empty(t, d.ProcessOrders(tick(clock)))
	clock.Advance(1)
	retired := d.ProcessOrders(tick(clock))

	require.Len(t, retired, 1)
	events := d.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "WAIT FINISHED after 1.0s", events[0].Detail)
}

func TestMarkDestroyed_StopsProcessing(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	d.ReceiveOrders([]order.Order{order.NewWait(d.ID(), 5)})

	d.MarkDestroyed()

	assert.Nil(t, d.ProcessOrders(tick(newClock())))
	assert.True(t, d.Queue().IsIdle())
	assert.True(t, d.Describe(1).Destroyed)
}
