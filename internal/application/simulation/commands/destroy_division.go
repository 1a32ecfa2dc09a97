package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// DestroyDivisionHandler - Handles destroy division commands
type DestroyDivisionHandler struct {
	world *simulation.World
}

// NewDestroyDivisionHandler creates a new destroy division handler
func NewDestroyDivisionHandler(world *simulation.World) *DestroyDivisionHandler {
	return &DestroyDivisionHandler{world: world}
}

// Handle executes the destroy division command
func (h *DestroyDivisionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*types.DestroyDivisionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.world.Destroy(cmd.DivisionID, cmd.By); err != nil {
		return nil, fmt.Errorf("failed to destroy division: %w", err)
	}
	return &types.DestroyDivisionResponse{Status: "destroyed"}, nil
}
