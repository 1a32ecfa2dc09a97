package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// pairVisibility lets a test say exactly who sees whom
type pairVisibility struct {
	hidden map[[2]shared.DivisionID]bool
}

func (p *pairVisibility) hide(a, b shared.DivisionID) {
	if p.hidden == nil {
		p.hidden = map[[2]shared.DivisionID]bool{}
	}
	p.hidden[[2]shared.DivisionID{a, b}] = true
	p.hidden[[2]shared.DivisionID{b, a}] = true
}

func (p *pairVisibility) VisiblePeers(observer *division.Division, all []*division.Division) []*division.Division {
	var out []*division.Division
	for _, d := range all {
		if d.ID() != observer.ID() && !p.hidden[[2]shared.DivisionID{observer.ID(), d.ID()}] {
			out = append(out, d)
		}
	}
	return out
}

type recordingJournal struct {
	ticks  []int64
	events int
	err    error
}

func (r *recordingJournal) Append(_ context.Context, tick int64, events []division.Event) error {
	r.ticks = append(r.ticks, tick)
	r.events += len(events)
	return r.err
}

type countingMetrics struct {
	ticks  int
	events map[division.EventType]int
}

func (c *countingMetrics) RecordTick(time.Duration, int) { c.ticks++ }
func (c *countingMetrics) RecordEvent(e division.Event) {
	if c.events == nil {
		c.events = map[division.EventType]int{}
	}
	c.events[e.Type]++
}

func newTestWorld(t *testing.T, deps Dependencies) *World {
	t.Helper()
	w, err := NewWorld(DefaultSettings(), deps)
	require.NoError(t, err)
	return w
}

func spawn(t *testing.T, w *World, name string, team shared.TeamID, soldiers int, pos shared.Position, commander shared.DivisionID) *division.Division {
	t.Helper()
	d, err := w.Spawn(SpawnSpec{Name: name, Team: team, Soldiers: soldiers, Position: pos, Commander: commander})
	require.NoError(t, err)
	return d
}

func TestNewWorld_RejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.TombstoneScope = "everyone"

	_, err := NewWorld(s, Dependencies{})

	assert.Error(t, err)
}

func TestSpawn_SeedsCommanderKnowledge(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	c := spawn(t, w, "c", 1, 5, shared.Position{}, 0)

	x := spawn(t, w, "x", 1, 2, shared.NewPosition(3, 0), c.ID())

	assert.Equal(t, c.ID(), x.Commander())
	assert.True(t, c.HasSubordinate(x.ID()))
	assert.True(t, c.Memory().Knows(x.ID()))
	assert.True(t, x.Memory().Knows(c.ID()))
	id, ok := w.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, x.ID(), id)

	_, err := w.Spawn(SpawnSpec{Name: "x", Team: 1, Soldiers: 1})
	assert.Error(t, err, "names are unique")
	_, err = w.Spawn(SpawnSpec{Name: "empty", Team: 1})
	assert.Error(t, err)
}

func TestTick_MergesMutuallyVisibleRoots(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	a := spawn(t, w, "a", 1, 5, shared.Position{}, 0)
	b := spawn(t, w, "b", 1, 10, shared.NewPosition(2, 0), 0)

	_, err := w.Tick(context.Background(), 1, false)
	require.NoError(t, err)

	assert.Equal(t, b.ID(), a.Commander())
	assert.Contains(t, b.Subordinates(), a.ID())
	assert.True(t, b.IsRoot())
}

func TestTick_DoesNotMergeEnemies(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	a := spawn(t, w, "a", 1, 5, shared.Position{}, 0)
	spawn(t, w, "b", 2, 10, shared.NewPosition(2, 0), 0)

	_, err := w.Tick(context.Background(), 1, false)
	require.NoError(t, err)

	assert.True(t, a.IsRoot())
}

func TestTick_PausedDoesNotAdvanceClock(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	d := spawn(t, w, "a", 1, 1, shared.Position{}, 0)
	_, err := w.IssueOrders(d.ID(), d.ID(), []order.Order{order.NewMove(d.ID(), shared.NewPosition(100, 0))})
	require.NoError(t, err)

	report, err := w.Tick(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, shared.Position{}, d.Position())
	assert.Less(t, float64(report.Now), 0.001)
}

func TestIssueOrders_ThreeHopsGoByCourier(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	c := spawn(t, w, "c", 1, 10, shared.Position{}, 0)
	b := spawn(t, w, "b", 1, 3, shared.NewPosition(5, 0), c.ID())
	a := spawn(t, w, "a", 1, 3, shared.NewPosition(10, 0), b.ID())
	target := spawn(t, w, "t", 1, 3, shared.NewPosition(30, 0), a.ID())
	ctx := context.Background()
	_, err := w.Tick(ctx, 1, false)
	require.NoError(t, err)

	payload := order.NewWait(c.ID(), 100)
	dispatch, err := w.IssueOrders(c.ID(), target.ID(), []order.Order{payload})
	require.NoError(t, err)
	require.False(t, dispatch.Direct)
	assert.Equal(t, []shared.DivisionID{c.ID(), b.ID(), a.ID(), target.ID()}, dispatch.Path)

	courier, ok := w.Division(dispatch.CourierID)
	require.True(t, ok)
	locate, ok := courier.Queue().Pending()[0].(*order.Locate)
	require.True(t, ok)

	delivered := false
	for i := 0; i < 20 && !delivered; i++ {
		_, err := w.Tick(ctx, 1, false)
		require.NoError(t, err)
		if target.Queue().Len() > 0 {
			delivered = true
			assert.True(t, locate.Found(), "payload arrives only after the target was located")
		}
	}

	require.True(t, delivered)
	require.Len(t, target.Queue().Pending(), 1)
	assert.Same(t, payload, target.Queue().Pending()[0])
	assert.Equal(t, 3, target.SoldierCount(), "the courier does not join its recipient")

	for i := 0; i < 20; i++ {
		if _, alive := w.Division(dispatch.CourierID); !alive {
			break
		}
		_, err := w.Tick(ctx, 1, false)
		require.NoError(t, err)
	}
	_, alive := w.Division(dispatch.CourierID)
	assert.False(t, alive, "the courier rejoins its sender")
	assert.Equal(t, 10, c.SoldierCount())
	assert.Equal(t, 3, target.SoldierCount())
}

func TestTick_CourierWithNowhereToGoIsDisbanded(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	c := spawn(t, w, "c", 1, 10, shared.Position{}, 0)
	b := spawn(t, w, "b", 1, 3, shared.NewPosition(5, 0), c.ID())
	a := spawn(t, w, "a", 1, 3, shared.NewPosition(10, 0), b.ID())
	target := spawn(t, w, "t", 1, 3, shared.NewPosition(30, 0), a.ID())
	ctx := context.Background()

	dispatch, err := w.IssueOrders(c.ID(), target.ID(), []order.Order{order.NewWait(c.ID(), 100)})
	require.NoError(t, err)
	require.False(t, dispatch.Direct)
	require.NoError(t, w.Destroy(c.ID(), shared.NoDivision))
	require.NoError(t, w.Destroy(target.ID(), shared.NoDivision))

	var courierEvents []division.Event
	for i := 0; i < 10; i++ {
		report, err := w.Tick(ctx, 1, false)
		require.NoError(t, err)
		for _, e := range report.Events {
			if e.Division == dispatch.CourierID {
				courierEvents = append(courierEvents, e)
			}
		}
		if _, alive := w.Division(dispatch.CourierID); !alive {
			break
		}
	}

	_, alive := w.Division(dispatch.CourierID)
	require.False(t, alive)
	_, fallen := w.Fallen(dispatch.CourierID)
	assert.True(t, fallen)

	var destroyed []string
	for _, e := range courierEvents {
		assert.NotEqual(t, division.EventCourierLost, e.Type, "the payload was already dropped with its recipient")
		if e.Type == division.EventDivisionDestroyed {
			destroyed = append(destroyed, e.Detail)
		}
	}
	assert.Equal(t, []string{"stranded"}, destroyed)
	assert.Equal(t, 3, a.SoldierCount())
	assert.Equal(t, 3, b.SoldierCount())
}

func TestSpawn_DeclaredHierarchyIsRoutableBeforeFirstTick(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	root := spawn(t, w, "root", 1, 10, shared.Position{}, 0)
	wing := spawn(t, w, "wing", 1, 5, shared.NewPosition(30, 30), root.ID())
	pickets := spawn(t, w, "pickets", 1, 3, shared.NewPosition(70, 40), wing.ID())

	assert.True(t, root.Memory().Knows(pickets.ID()))
	assert.True(t, pickets.Memory().Knows(root.ID()))

	dispatch, err := w.IssueOrders(root.ID(), pickets.ID(), []order.Order{order.NewWait(root.ID(), 5)})

	require.NoError(t, err)
	assert.Equal(t, []shared.DivisionID{root.ID(), wing.ID(), pickets.ID()}, dispatch.Path)
	assert.False(t, dispatch.CourierID.IsZero())
}

func TestIssueOrders_PrimesVisibilityBeforeFirstTick(t *testing.T) {
	w := newTestWorld(t, Dependencies{})
	a := spawn(t, w, "a", 1, 5, shared.Position{}, 0)
	b := spawn(t, w, "b", 1, 5, shared.NewPosition(3, 0), 0)

	_, err := w.IssueOrders(a.ID(), a.ID(), []order.Order{order.NewWait(a.ID(), 1)})
	require.NoError(t, err)

	_, sees := a.LookupVisible(b.ID())
	assert.True(t, sees)
}

func TestTick_HeartbeatsKeepSoldierCounts(t *testing.T) {
	settings := DefaultSettings()
	settings.HeartbeatInterval = 1
	w, err := NewWorld(settings, Dependencies{})
	require.NoError(t, err)
	c := spawn(t, w, "c", 1, 5, shared.Position{}, 0)
	x := spawn(t, w, "x", 1, 5, shared.NewPosition(3, 0), c.ID())
	ctx := context.Background()

	lateDispatches := 0
	for i := 0; i < 40; i++ {
		report, err := w.Tick(ctx, 0.5, false)
		require.NoError(t, err)
		for _, e := range report.Events {
			if i >= 30 && e.Type == division.EventCourierDispatched {
				lateDispatches++
			}
		}
	}

	total := 0
	for _, d := range w.Divisions() {
		total += d.SoldierCount()
	}
	assert.Equal(t, 10, total, "no soldier is created or lost")
	assert.Equal(t, 5, c.SoldierCount(), "reports never grow the commander")
	assert.GreaterOrEqual(t, x.SoldierCount(), 3)
	assert.Positive(t, lateDispatches, "heartbeats keep flowing")
}
