package division

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

func TestSendOrdersTo_SelfIsDirectWithoutCourier(t *testing.T) {
	d := newTestDivision(t, 1, 4, shared.Position{})
	wait := order.NewWait(0, 1)
	report := order.NewReport(0, 1)

	dispatch, err := d.SendOrdersTo(d.ID(), []order.Order{wait, report}, tick(newClock()))

	require.NoError(t, err)
	assert.True(t, dispatch.Direct)
	assert.Equal(t, []shared.DivisionID{d.ID()}, dispatch.Path)
	assert.Equal(t, []order.Order{wait}, d.Queue().Pending())
	assert.Equal(t, []order.Order{report}, d.Background().Orders())
	assert.Equal(t, 4, d.SoldierCount(), "no courier spawned")
	assert.Empty(t, d.DrainEffects())
	assert.Equal(t, d.ID(), wait.Meta().CommanderSendingOrderID)
}

func TestSendOrdersTo_UnknownTargetIsNotFound(t *testing.T) {
	d := newTestDivision(t, 1, 4, shared.Position{})
	wait := order.NewWait(d.ID(), 1)

	_, err := d.SendOrdersTo(12345678, []order.Order{wait}, tick(newClock()))

	assert.ErrorIs(t, err, shared.ErrTargetNotFound)
	assert.Equal(t, 4, d.SoldierCount())
	assert.Empty(t, d.DrainEffects())
	assert.True(t, d.Queue().IsIdle())
}

func TestSendOrdersTo_DestroyedTargetIsRejected(t *testing.T) {
	d := newTestDivision(t, 1, 4, shared.Position{})
	dead := remember(d, 4242, d.ID(), 1)
	d.memory.Update(dead.Tombstone(2))

	_, err := d.SendOrdersTo(4242, []order.Order{order.NewWait(d.ID(), 1)}, tick(newClock()))

	assert.ErrorIs(t, err, shared.ErrDivisionDestroyed)
}

func TestSendOrdersTo_ThreeHopsSpawnsCourierWithLocateThenDeliver(t *testing.T) {
	c := newTestDivision(t, 1, 6, shared.Position{})
	c.AddSubordinate(2001)
	remember(c, 2001, c.ID(), 1, 2002)
	remember(c, 2002, 2001, 1, 2003)
	remember(c, 2003, 2002, 1)
	payload := []order.Order{order.NewWait(c.ID(), 3)}

	dispatch, err := c.SendOrdersTo(2003, payload, tick(newClock()))

	require.NoError(t, err)
	assert.False(t, dispatch.Direct)
	assert.Equal(t, []shared.DivisionID{c.ID(), 2001, 2002, 2003}, dispatch.Path)
	assert.Equal(t, 3, dispatch.Hops())

	spawns := effectsOf[SpawnEffect](c.DrainEffects())
	require.Len(t, spawns, 1)
	courier := spawns[0].Child
	assert.Equal(t, dispatch.CourierID, courier.ID())
	assert.True(t, courier.IsCourier())
	assert.Equal(t, 5, c.SoldierCount())

	pending := courier.Queue().Pending()
	require.Len(t, pending, 2)
	locate, ok := pending[0].(*order.Locate)
	require.True(t, ok)
	assert.Equal(t, shared.DivisionID(2003), locate.TargetID)
	deliver, ok := pending[1].(*order.Deliver)
	require.True(t, ok)
	assert.Equal(t, payload, deliver.Payload)
	assert.True(t, courier.Memory().Knows(2003), "the courier carries its sender's knowledge")
}

func TestSendOrdersTo_LoneSoldierCannotSendCourier(t *testing.T) {
	c := newTestDivision(t, 1, 1, shared.Position{})
	c.AddSubordinate(3001)
	remember(c, 3001, c.ID(), 1)

	_, err := c.SendOrdersTo(3001, []order.Order{order.NewWait(c.ID(), 1)}, tick(newClock()))

	assert.ErrorIs(t, err, shared.ErrInsufficientSoldierCount)
}

func TestFindPath_WalksUpThenDown(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	d.SetCommander(4001)
	remember(d, 4001, 4000, 1, d.ID())
	remember(d, 4000, 4000, 1, 4001, 4002)
	remember(d, 4002, 4000, 1)

	path, ok := d.FindPath(4002)

	require.True(t, ok)
	assert.Equal(t, []shared.DivisionID{d.ID(), 4001, 4000, 4002}, path)
}

func TestFindPath_TerminatesOnSubordinateCycle(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	d.AddSubordinate(5001)
	remember(d, 5001, d.ID(), 1, 5002)
	remember(d, 5002, 5001, 1, 5001, d.ID())

	_, found := d.FindPath(5999)
	path, ok := d.FindPath(5002)

	assert.False(t, found)
	require.True(t, ok)
	assert.Equal(t, []shared.DivisionID{d.ID(), 5001, 5002}, path)
}

func TestFindPath_TerminatesOnCommanderCycle(t *testing.T) {
	d := newTestDivision(t, 1, 1, shared.Position{})
	d.SetCommander(6001)
	remember(d, 6001, 6002, 1, d.ID())
	remember(d, 6002, 6001, 1, 6001)

	path, ok := d.FindPath(d.ID())

	require.True(t, ok)
	assert.Equal(t, []shared.DivisionID{d.ID()}, path)
}

func TestCollapseCycles(t *testing.T) {
	tests := []struct {
		name string
		in   []shared.DivisionID
		want []shared.DivisionID
	}{
		{"no repeats", []shared.DivisionID{1, 2, 3}, []shared.DivisionID{1, 2, 3}},
		{"back to start", []shared.DivisionID{1, 2, 3, 2, 1}, []shared.DivisionID{1}},
		{"loop in the middle", []shared.DivisionID{1, 2, 3, 4, 2, 5}, []shared.DivisionID{1, 2, 5}},
		{"nested loops", []shared.DivisionID{1, 2, 3, 2, 4, 1, 6}, []shared.DivisionID{1, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collapseCycles(tt.in))
		})
	}
}
