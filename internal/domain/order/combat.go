package order

import (
	"sort"

	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Attack chases a target and fires on it once it is within weapon range.
// It ends when the target is destroyed or can no longer be found.
type Attack struct {
	Base
	Targeting
	done bool
}

// NewAttack creates an attack order against target
func NewAttack(sender, target shared.DivisionID) *Attack {
	return &Attack{Base: NewBase(KindAttack, sender), Targeting: Targeting{TargetID: target}}
}

func (a *Attack) Proceed(h Host, t shared.Tick) {
	snap, visible, ok := a.Resolve(h)
	if !ok || snap.Destroyed {
		a.done = true
		return
	}

	if visible && h.Position().DistanceTo(snap.Position) <= h.Stats().MaxRange {
		h.Halt()
		killed, err := h.Attack(a.TargetID, t.Delta)
		if err != nil || killed {
			a.done = true
		}
		return
	}

	arrived := h.MoveToward(snap.PredictedPosition(t.Now), t.Delta)
	if arrived && !visible {
		// reached the last known position and nothing is there
		a.done = true
	}
}

func (a *Attack) Finished(Host, shared.Tick) bool {
	return a.done
}

func (a *Attack) Pause(h Host, _ shared.Tick) {
	h.Halt()
}

func (a *Attack) End(h Host, _ shared.Tick) {
	h.Halt()
}

// NewEngage creates an AI order that keeps attacking the nearest visible
// enemy, searching again whenever the current attack ends. It runs until
// canceled.
func NewEngage(sender shared.DivisionID) *MultiOrder {
	m := &MultiOrder{Base: NewBase(KindEngage, sender)}
	m.SetOnEmpty(engageNearest)
	return m
}

func engageNearest(m *MultiOrder, h Host, _ shared.Tick) {
	enemies := h.VisibleEnemies()
	if len(enemies) == 0 {
		return
	}
	here := h.Position()
	sort.SliceStable(enemies, func(i, j int) bool {
		di := here.DistanceTo(enemies[i].Position)
		dj := here.DistanceTo(enemies[j].Position)
		if di != dj {
			return di < dj
		}
		return enemies[i].ID < enemies[j].ID
	})
	for _, e := range enemies {
		if !e.Destroyed {
			m.Enqueue(NewAttack(m.meta.CommanderSendingOrderID, e.ID))
			return
		}
	}
}
