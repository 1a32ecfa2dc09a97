package scenario

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Roster maps scenario names to division ids
type Roster map[string]shared.DivisionID

// Resolve returns the id registered under name
func (r Roster) Resolve(name string) (shared.DivisionID, error) {
	id, ok := r[name]
	if !ok {
		return shared.NoDivision, fmt.Errorf("unknown division %q", name)
	}
	return id, nil
}

// Build spawns every declared division through the mediator
func Build(ctx context.Context, m mediator.Mediator, s *Scenario) (Roster, error) {
	if err := s.CheckReferences(); err != nil {
		return nil, err
	}

	roster := make(Roster, len(s.Divisions))
	for _, spec := range s.Divisions {
		tmpl, err := s.Template(spec.Template)
		if err != nil {
			return nil, err
		}
		var commander shared.DivisionID
		if spec.Commander != "" {
			if commander, err = roster.Resolve(spec.Commander); err != nil {
				return nil, err
			}
		}

		resp, err := m.Send(ctx, &types.SpawnDivisionCommand{Spec: simulation.SpawnSpec{
			Name:      spec.Name,
			Team:      shared.TeamID(spec.Team),
			Position:  spec.Position,
			Soldiers:  spec.Soldiers,
			Template:  tmpl,
			Commander: commander,
		}})
		if err != nil {
			return nil, err
		}
		roster[spec.Name] = resp.(*types.SpawnDivisionResponse).DivisionID
	}
	return roster, nil
}

// BuildOrder converts an order spec into a domain order sent by sender
func BuildOrder(s *Scenario, roster Roster, sender shared.DivisionID, spec OrderSpec) (order.Order, error) {
	switch spec.Kind {
	case "move":
		if spec.Destination == nil {
			return nil, fmt.Errorf("move order needs a destination")
		}
		return order.NewMove(sender, *spec.Destination), nil

	case "wait":
		return order.NewWait(sender, spec.Seconds), nil

	case "attack":
		target, err := roster.Resolve(spec.Target)
		if err != nil {
			return nil, fmt.Errorf("attack order: %w", err)
		}
		return order.NewAttack(sender, target), nil

	case "engage":
		return order.NewEngage(sender), nil

	case "recruit":
		tmpl, err := s.Template(spec.Template)
		if err != nil {
			return nil, err
		}
		if spec.Cap < 1 {
			return nil, fmt.Errorf("recruit order needs a cap of at least one soldier")
		}
		return order.NewRecruit(sender, tmpl, spec.Cap, spec.Interval), nil

	case "report":
		return order.NewReport(sender, spec.Interval), nil

	case "sequence":
		subs := make([]order.Order, 0, len(spec.Orders))
		for _, sub := range spec.Orders {
			o, err := BuildOrder(s, roster, sender, sub)
			if err != nil {
				return nil, err
			}
			subs = append(subs, o)
		}
		return order.NewSequence(sender, subs...), nil

	default:
		return nil, fmt.Errorf("unknown order kind %q", spec.Kind)
	}
}
