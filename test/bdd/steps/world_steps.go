package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/commands"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/test/helpers"
)

type worldContext struct {
	settings   simulation.Settings
	visibility *helpers.MockVisibilityProvider

	world    *simulation.World
	mediator mediator.Mediator

	dispatch  order.Dispatch
	lastOrder order.Order
	events    []division.Event
	err       error
}

func (w *worldContext) reset() {
	w.settings = simulation.DefaultSettings()
	w.visibility = helpers.NewMockVisibilityProvider()
	w.world = nil
	w.mediator = nil
	w.dispatch = order.Dispatch{}
	w.lastOrder = nil
	w.events = nil
	w.err = nil
}

// ensureWorld builds the world on first use so settings steps can run first
func (w *worldContext) ensureWorld() error {
	if w.world != nil {
		return nil
	}
	world, err := simulation.NewWorld(w.settings, simulation.Dependencies{Visibility: w.visibility})
	if err != nil {
		return err
	}
	m, err := commands.NewSimulationMediator(world)
	if err != nil {
		return err
	}
	w.world = world
	w.mediator = m
	return nil
}

func (w *worldContext) resolve(name string) (shared.DivisionID, error) {
	if err := w.ensureWorld(); err != nil {
		return 0, err
	}
	id, ok := w.world.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("no division named %q", name)
	}
	return id, nil
}

func (w *worldContext) live(name string) (*division.Division, error) {
	id, err := w.resolve(name)
	if err != nil {
		return nil, err
	}
	d, ok := w.world.Division(id)
	if !ok {
		return nil, fmt.Errorf("division %q is not alive", name)
	}
	return d, nil
}

// Given steps

func (w *worldContext) theTombstoneScopeIs(scope string) error {
	if w.world != nil {
		return fmt.Errorf("settings must be given before any division")
	}
	w.settings.TombstoneScope = simulation.TombstoneScope(scope)
	return nil
}

func (w *worldContext) theFollowingDivisions(table *godog.Table) error {
	if err := w.ensureWorld(); err != nil {
		return err
	}
	for _, row := range table.Rows[1:] {
		name := getCellValueFromTable(table, row, "name")
		team, err := getIntFromTable(table, row, "team")
		if err != nil {
			return err
		}
		soldiers, err := getIntFromTable(table, row, "soldiers")
		if err != nil {
			return err
		}
		x, err := getFloatFromTable(table, row, "x")
		if err != nil {
			return err
		}
		y, err := getFloatFromTable(table, row, "y")
		if err != nil {
			return err
		}

		spec := simulation.SpawnSpec{
			Name:     name,
			Team:     shared.TeamID(team),
			Soldiers: soldiers,
			Position: shared.NewPosition(x, y),
		}
		if commander := getCellValueFromTable(table, row, "commander"); commander != "" {
			id, err := w.resolve(commander)
			if err != nil {
				return err
			}
			spec.Commander = id
		}

		if _, err := w.mediator.Send(context.Background(), &types.SpawnDivisionCommand{Spec: spec}); err != nil {
			return fmt.Errorf("failed to spawn %s: %w", name, err)
		}
	}
	return nil
}

func (w *worldContext) cannotSeeEachOther(a, b string) error {
	idA, err := w.resolve(a)
	if err != nil {
		return err
	}
	idB, err := w.resolve(b)
	if err != nil {
		return err
	}
	w.visibility.Hide(idA, idB)
	return nil
}

// When steps

func (w *worldContext) ticksPass(n int) error {
	if err := w.ensureWorld(); err != nil {
		return err
	}
	resp, err := w.mediator.Send(context.Background(), &types.AdvanceTicksCommand{Ticks: n, Delta: 1})
	if err != nil {
		return err
	}
	for _, report := range resp.(*types.AdvanceTicksResponse).Reports {
		w.events = append(w.events, report.Events...)
	}
	return nil
}

func (w *worldContext) issue(from, to string, build func(sender shared.DivisionID) order.Order) error {
	fromID, err := w.resolve(from)
	if err != nil {
		return err
	}
	toID, err := w.resolve(to)
	if err != nil {
		return err
	}
	w.lastOrder = build(fromID)
	resp, err := w.mediator.Send(context.Background(), &types.IssueOrdersCommand{
		From:   fromID,
		To:     toID,
		Orders: []order.Order{w.lastOrder},
	})
	w.err = err
	if err == nil {
		w.dispatch = resp.(*types.IssueOrdersResponse).Dispatch
	}
	return nil
}

func (w *worldContext) issuesAWaitOrder(from string, seconds float64, to string) error {
	return w.issue(from, to, func(sender shared.DivisionID) order.Order {
		return order.NewWait(sender, seconds)
	})
}

func (w *worldContext) issuesAMoveOrder(from string, x, y float64, to string) error {
	return w.issue(from, to, func(sender shared.DivisionID) order.Order {
		return order.NewMove(sender, shared.NewPosition(x, y))
	})
}

func (w *worldContext) isDestroyedBy(name, by string) error {
	id, err := w.resolve(name)
	if err != nil {
		return err
	}
	byID, err := w.resolve(by)
	if err != nil {
		return err
	}
	_, err = w.mediator.Send(context.Background(), &types.DestroyDivisionCommand{DivisionID: id, By: byID})
	return err
}

func (w *worldContext) theCourierIsDestroyedBy(by string) error {
	if w.dispatch.CourierID.IsZero() {
		return fmt.Errorf("no courier was dispatched")
	}
	byID, err := w.resolve(by)
	if err != nil {
		return err
	}
	_, err = w.mediator.Send(context.Background(), &types.DestroyDivisionCommand{DivisionID: w.dispatch.CourierID, By: byID})
	return err
}

func (w *worldContext) theLastOrderIsCanceled() error {
	if w.lastOrder == nil {
		return fmt.Errorf("no order was issued")
	}
	return w.lastOrder.Meta().Cancel(w.lastOrder.Kind())
}

// Then steps

func (w *worldContext) shouldBeCommandedBy(name, commander string) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	want, err := w.resolve(commander)
	if err != nil {
		return err
	}
	if d.Commander() != want {
		return fmt.Errorf("expected %s to be commanded by %s (%s) but got %s", name, commander, want, d.Commander())
	}
	return nil
}

func (w *worldContext) shouldBeARoot(name string) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	if !d.IsRoot() {
		return fmt.Errorf("expected %s to be a root but it is commanded by %s", name, d.Commander())
	}
	return nil
}

func (w *worldContext) shouldListAsASubordinate(name, sub string) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	id, err := w.resolve(sub)
	if err != nil {
		return err
	}
	if !d.HasSubordinate(id) {
		return fmt.Errorf("expected %s to list %s as a subordinate, has %v", name, sub, d.Subordinates())
	}
	return nil
}

func (w *worldContext) theCommandTreeShouldHaveRoots(n int) error {
	resp, err := w.mediator.Send(context.Background(), &types.CommandTreeQuery{})
	if err != nil {
		return err
	}
	roots := resp.(*types.CommandTreeResponse).Roots
	if len(roots) != n {
		return fmt.Errorf("expected %d roots but got %d", n, len(roots))
	}
	return nil
}

func (w *worldContext) theOrdersShouldBeFiledDirectly() error {
	if w.err != nil {
		return fmt.Errorf("dispatch failed: %w", w.err)
	}
	if !w.dispatch.Direct {
		return fmt.Errorf("expected a direct filing but a courier was sent along %v", w.dispatch.Path)
	}
	return nil
}

func (w *worldContext) theOrdersShouldTravelByCourierAlong(path string) error {
	if w.err != nil {
		return fmt.Errorf("dispatch failed: %w", w.err)
	}
	if w.dispatch.Direct || w.dispatch.CourierID.IsZero() {
		return fmt.Errorf("expected a courier")
	}
	var want []shared.DivisionID
	for _, name := range strings.Split(path, ",") {
		id, err := w.resolve(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		want = append(want, id)
	}
	if fmt.Sprint(want) != fmt.Sprint(w.dispatch.Path) {
		return fmt.Errorf("expected path %v but got %v", want, w.dispatch.Path)
	}
	return nil
}

func (w *worldContext) theDispatchShouldFailWith(reason string) error {
	var target error
	switch reason {
	case "target not found":
		target = shared.ErrTargetNotFound
	case "insufficient soldiers":
		target = shared.ErrInsufficientSoldierCount
	case "division destroyed":
		target = shared.ErrDivisionDestroyed
	default:
		return fmt.Errorf("unknown failure %q", reason)
	}
	if w.err == nil {
		return fmt.Errorf("expected the dispatch to fail with %s", reason)
	}
	if !errors.Is(w.err, target) {
		return fmt.Errorf("expected %s but got: %v", reason, w.err)
	}
	return nil
}

func (w *worldContext) theCourierShouldBeGone() error {
	if _, alive := w.world.Division(w.dispatch.CourierID); alive {
		return fmt.Errorf("courier %s is still alive", w.dispatch.CourierID)
	}
	return nil
}

func (w *worldContext) shouldHaveOrders(name string, n int) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	if d.Queue().Len() != n {
		return fmt.Errorf("expected %s to hold %d orders but it holds %d", name, n, d.Queue().Len())
	}
	return nil
}

func (w *worldContext) shouldHaveSoldiers(name string, n int) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	if d.SoldierCount() != n {
		return fmt.Errorf("expected %s to have %d soldiers but it has %d", name, n, d.SoldierCount())
	}
	return nil
}

func (w *worldContext) shouldBeAt(name string, x, y float64) error {
	d, err := w.live(name)
	if err != nil {
		return err
	}
	p := d.Position()
	if math.Abs(p.X-x) > 1e-9 || math.Abs(p.Y-y) > 1e-9 {
		return fmt.Errorf("expected %s at (%v, %v) but it is at %s", name, x, y, p)
	}
	return nil
}

func (w *worldContext) theLastOrderShouldHaveEndedAs(outcome string) error {
	lc := w.lastOrder.Meta().Lifecycle()
	if !lc.IsEnded() {
		return fmt.Errorf("order is still %s", lc.Status())
	}
	if string(lc.Outcome()) != outcome {
		return fmt.Errorf("expected outcome %s but got %s", outcome, lc.Outcome())
	}
	return nil
}

func (w *worldContext) shouldRememberAs(observer, subject, state string) error {
	d, err := w.live(observer)
	if err != nil {
		return err
	}
	id, err := w.resolve(subject)
	if err != nil {
		return err
	}
	snap, ok := d.Memory().Get(id)
	if !ok {
		return fmt.Errorf("%s does not remember %s", observer, subject)
	}
	want := state == "destroyed"
	if snap.Destroyed != want {
		return fmt.Errorf("expected %s to remember %s as %s", observer, subject, state)
	}
	return nil
}

func (w *worldContext) anEventShouldHaveBeenRecorded(eventType string) error {
	for _, e := range w.events {
		if string(e.Type) == eventType {
			return nil
		}
	}
	return fmt.Errorf("no %s event among %d recorded", eventType, len(w.events))
}

func InitializeWorldScenario(ctx *godog.ScenarioContext) {
	w := &worldContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		w.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the tombstone scope is "([^"]*)"$`, w.theTombstoneScopeIs)
	ctx.Step(`^the following divisions:$`, w.theFollowingDivisions)
	ctx.Step(`^"([^"]*)" and "([^"]*)" cannot see each other$`, w.cannotSeeEachOther)

	// When steps
	ctx.Step(`^(\d+) ticks? pass(?:es)?$`, w.ticksPass)
	ctx.Step(`^"([^"]*)" issues a wait order of (\d+(?:\.\d+)?) seconds to "([^"]*)"$`, w.issuesAWaitOrder)
	ctx.Step(`^"([^"]*)" issues a move order to \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\) to "([^"]*)"$`, w.issuesAMoveOrder)
	ctx.Step(`^"([^"]*)" is destroyed by "([^"]*)"$`, w.isDestroyedBy)
	ctx.Step(`^the courier is destroyed by "([^"]*)"$`, w.theCourierIsDestroyedBy)
	ctx.Step(`^the last order is canceled$`, w.theLastOrderIsCanceled)

	// Then steps
	ctx.Step(`^"([^"]*)" should be commanded by "([^"]*)"$`, w.shouldBeCommandedBy)
	ctx.Step(`^"([^"]*)" should be a root$`, w.shouldBeARoot)
	ctx.Step(`^"([^"]*)" should list "([^"]*)" as a subordinate$`, w.shouldListAsASubordinate)
	ctx.Step(`^the command tree should have (\d+) roots?$`, w.theCommandTreeShouldHaveRoots)
	ctx.Step(`^the orders should be filed directly$`, w.theOrdersShouldBeFiledDirectly)
	ctx.Step(`^the orders should travel by courier along "([^"]*)"$`, w.theOrdersShouldTravelByCourierAlong)
	ctx.Step(`^the dispatch should fail with (target not found|insufficient soldiers|division destroyed)$`, w.theDispatchShouldFailWith)
	ctx.Step(`^the courier should be gone$`, w.theCourierShouldBeGone)
	ctx.Step(`^"([^"]*)" should hold (\d+) orders?$`, w.shouldHaveOrders)
	ctx.Step(`^"([^"]*)" should have (\d+) soldiers?$`, w.shouldHaveSoldiers)
	ctx.Step(`^"([^"]*)" should be at \((-?\d+(?:\.\d+)?), (-?\d+(?:\.\d+)?)\)$`, w.shouldBeAt)
	ctx.Step(`^the last order should have ended as (FINISHED|CANCELED)$`, w.theLastOrderShouldHaveEndedAs)
	ctx.Step(`^"([^"]*)" should remember "([^"]*)" as (destroyed|alive)$`, w.shouldRememberAs)
	ctx.Step(`^an? "([^"]*)" event should have been recorded$`, w.anEventShouldHaveBeenRecorded)
}
