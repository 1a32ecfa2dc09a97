package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// CommandTreeHandler - Handles command tree queries
type CommandTreeHandler struct {
	world *simulation.World
}

// NewCommandTreeHandler creates a new command tree handler
func NewCommandTreeHandler(world *simulation.World) *CommandTreeHandler {
	return &CommandTreeHandler{world: world}
}

// Handle executes the command tree query
func (h *CommandTreeHandler) Handle(_ context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*types.CommandTreeQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return &types.CommandTreeResponse{
		Roots: h.world.CommandTree(),
		Tick:  h.world.Ticks(),
		Now:   h.world.Now(),
	}, nil
}
