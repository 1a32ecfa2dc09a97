package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

type memoryContext struct {
	memory   *intel.Memory
	accepted bool
}

func (m *memoryContext) reset() {
	m.memory = nil
	m.accepted = false
}

func snapshot(id int64, commander int64, stamp float64, destroyed bool) *intel.RememberedDivision {
	return intel.NewRememberedDivision(
		shared.DivisionID(id),
		1,
		shared.DivisionID(commander),
		nil,
		shared.Position{},
		shared.Position{},
		soldier.Stats{},
		shared.SimTime(stamp),
		destroyed,
		nil,
	)
}

// Given steps

func (m *memoryContext) aMemoryWithTieBreak(policy string) error {
	p, err := intel.ParseTieBreakPolicy(policy)
	if err != nil {
		return err
	}
	m.memory = intel.NewMemory(p)
	return nil
}

func (m *memoryContext) divisionIsRememberedAtTimeCommandedBy(id int64, stamp float64, commander int64) error {
	if m.memory == nil {
		m.memory = intel.NewMemory("")
	}
	m.memory.Update(snapshot(id, commander, stamp, false))
	return nil
}

// When steps

func (m *memoryContext) aSnapshotArrives(id int64, stamp float64, commander int64) error {
	m.accepted = m.memory.Update(snapshot(id, commander, stamp, false))
	return nil
}

func (m *memoryContext) aTombstoneArrives(id int64, stamp float64) error {
	existing, ok := m.memory.Get(shared.DivisionID(id))
	commander := int64(id)
	if ok {
		commander = int64(existing.Commander)
	}
	m.accepted = m.memory.Update(snapshot(id, commander, stamp, true))
	return nil
}

// Then steps

func (m *memoryContext) theUpdateShouldBeAccepted() error {
	if !m.accepted {
		return fmt.Errorf("expected the update to be accepted")
	}
	return nil
}

func (m *memoryContext) theUpdateShouldBeRejected() error {
	if m.accepted {
		return fmt.Errorf("expected the update to be rejected")
	}
	return nil
}

func (m *memoryContext) divisionShouldBeRememberedAtTimeCommandedBy(id int64, stamp float64, commander int64) error {
	snap, ok := m.memory.Get(shared.DivisionID(id))
	if !ok {
		return fmt.Errorf("division %d is not remembered", id)
	}
	if snap.TimeStamp != shared.SimTime(stamp) {
		return fmt.Errorf("expected timestamp %v but got %v", stamp, snap.TimeStamp)
	}
	if snap.Commander != shared.DivisionID(commander) {
		return fmt.Errorf("expected commander %d but got %d", commander, snap.Commander)
	}
	return nil
}

func (m *memoryContext) divisionShouldBeRememberedAs(id int64, state string) error {
	snap, ok := m.memory.Get(shared.DivisionID(id))
	if !ok {
		return fmt.Errorf("division %d is not remembered", id)
	}
	want := state == "destroyed"
	if snap.Destroyed != want {
		return fmt.Errorf("expected destroyed=%v but got %v", want, snap.Destroyed)
	}
	return nil
}

func (m *memoryContext) theMemoryShouldHoldDivisions(n int) error {
	if m.memory.Len() != n {
		return fmt.Errorf("expected %d remembered divisions but got %d", n, m.memory.Len())
	}
	return nil
}

func InitializeMemoryScenario(ctx *godog.ScenarioContext) {
	m := &memoryContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		m.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a memory with tie break "([^"]*)"$`, m.aMemoryWithTieBreak)
	ctx.Step(`^division (\d+) is remembered at time (\d+(?:\.\d+)?) commanded by (\d+)$`, m.divisionIsRememberedAtTimeCommandedBy)

	// When steps
	ctx.Step(`^a snapshot of division (\d+) at time (\d+(?:\.\d+)?) commanded by (\d+) arrives$`, m.aSnapshotArrives)
	ctx.Step(`^a tombstone of division (\d+) at time (\d+(?:\.\d+)?) arrives$`, m.aTombstoneArrives)

	// Then steps
	ctx.Step(`^the update should be accepted$`, m.theUpdateShouldBeAccepted)
	ctx.Step(`^the update should be rejected$`, m.theUpdateShouldBeRejected)
	ctx.Step(`^division (\d+) should be remembered at time (\d+(?:\.\d+)?) commanded by (\d+)$`, m.divisionShouldBeRememberedAtTimeCommandedBy)
	ctx.Step(`^division (\d+) should be remembered as (destroyed|alive)$`, m.divisionShouldBeRememberedAs)
	ctx.Step(`^the memory should hold (\d+) divisions?$`, m.theMemoryShouldHoldDivisions)
}
