package order

import (
	"errors"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

type sentBatch struct {
	target shared.DivisionID
	orders []Order
}

// fakeHost is a scripted Host for exercising orders without a division
type fakeHost struct {
	id        shared.DivisionID
	team      shared.TeamID
	commander shared.DivisionID
	pos       shared.Position
	speed     float64
	stats     soldier.Stats

	visible    map[shared.DivisionID]*intel.RememberedDivision
	remembered map[shared.DivisionID]*intel.RememberedDivision

	halts     int
	attacks   int
	killAfter int
	delivered []sentBatch
	joined    []shared.DivisionID
	sent      []sentBatch
	sendErr   error
	ingested  []*intel.RememberedDivision
	recruited int
}

func newFakeHost(id shared.DivisionID) *fakeHost {
	return &fakeHost{
		id:         id,
		team:       1,
		commander:  id,
		speed:      1,
		stats:      soldier.Stats{Count: 1, MaxRange: 2},
		visible:    map[shared.DivisionID]*intel.RememberedDivision{},
		remembered: map[shared.DivisionID]*intel.RememberedDivision{},
	}
}

func (f *fakeHost) ID() shared.DivisionID        { return f.id }
func (f *fakeHost) Team() shared.TeamID          { return f.team }
func (f *fakeHost) Commander() shared.DivisionID { return f.commander }
func (f *fakeHost) Position() shared.Position    { return f.pos }
func (f *fakeHost) Stats() soldier.Stats         { return f.stats }

func (f *fakeHost) MoveToward(target shared.Position, dt float64) bool {
	var arrived bool
	f.pos, arrived = f.pos.MoveToward(target, f.speed*dt)
	return arrived
}

func (f *fakeHost) Halt() { f.halts++ }

func (f *fakeHost) LookupVisible(id shared.DivisionID) (*intel.RememberedDivision, bool) {
	s, ok := f.visible[id]
	return s, ok
}

func (f *fakeHost) Remembered(id shared.DivisionID) (*intel.RememberedDivision, bool) {
	s, ok := f.remembered[id]
	return s, ok
}

func (f *fakeHost) VisibleEnemies() []*intel.RememberedDivision {
	var out []*intel.RememberedDivision
	for _, s := range f.visible {
		if s.Team != f.team {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeHost) Attack(target shared.DivisionID, _ float64) (bool, error) {
	if _, ok := f.visible[target]; !ok {
		return false, errors.New("not visible")
	}
	f.attacks++
	return f.killAfter > 0 && f.attacks >= f.killAfter, nil
}

func (f *fakeHost) DeliverOrders(target shared.DivisionID, orders []Order) error {
	f.delivered = append(f.delivered, sentBatch{target: target, orders: orders})
	return nil
}

func (f *fakeHost) JoinDivision(target shared.DivisionID) error {
	f.joined = append(f.joined, target)
	return nil
}

func (f *fakeHost) SendOrdersTo(target shared.DivisionID, orders []Order, _ shared.Tick) (Dispatch, error) {
	if f.sendErr != nil {
		return Dispatch{}, f.sendErr
	}
	f.sent = append(f.sent, sentBatch{target: target, orders: orders})
	return Dispatch{Path: []shared.DivisionID{f.id, target}}, nil
}

func (f *fakeHost) Ingest(snaps []*intel.RememberedDivision, _ shared.Tick) {
	f.ingested = append(f.ingested, snaps...)
}

func (f *fakeHost) MemorySnapshots() []*intel.RememberedDivision {
	var out []*intel.RememberedDivision
	for _, s := range f.remembered {
		out = append(out, s)
	}
	return out
}

func (f *fakeHost) Describe(stamp shared.SimTime) *intel.RememberedDivision {
	return intel.NewRememberedDivision(f.id, f.team, f.commander, nil, f.pos, shared.Position{}, f.stats, stamp, false, nil)
}

func (f *fakeHost) Recruit(soldier.Template) error {
	f.recruited++
	f.stats.Count++
	return nil
}

func snapshotAt(id shared.DivisionID, team shared.TeamID, pos shared.Position) *intel.RememberedDivision {
	return intel.NewRememberedDivision(id, team, id, nil, pos, shared.Position{}, soldier.Stats{Count: 3}, 0, false, nil)
}

func tickAt(now float64, delta float64) shared.Tick {
	clock := shared.NewLogicalClock(shared.SimTime(now), 0)
	return shared.NewTick(clock, delta, false)
}
