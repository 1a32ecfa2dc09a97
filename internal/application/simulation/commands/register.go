package commands

import (
	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/queries"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// NewSimulationMediator wires every simulation handler into a mediator
// with request logging
func NewSimulationMediator(world *simulation.World) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	m.Use(mediator.LoggingMiddleware)

	if err := mediator.RegisterHandler[*types.AdvanceTicksCommand](m, NewAdvanceTicksHandler(world)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*types.SpawnDivisionCommand](m, NewSpawnDivisionHandler(world)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*types.IssueOrdersCommand](m, NewIssueOrdersHandler(world)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*types.DestroyDivisionCommand](m, NewDestroyDivisionHandler(world)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*types.HandoffDivisionCommand](m, NewHandoffDivisionHandler(world)); err != nil {
		return nil, err
	}
	if err := mediator.RegisterHandler[*types.CommandTreeQuery](m, queries.NewCommandTreeHandler(world)); err != nil {
		return nil, err
	}
	return m, nil
}
