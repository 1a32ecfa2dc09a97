package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// HandoffDivisionHandler - Handles handoff division commands
type HandoffDivisionHandler struct {
	world *simulation.World
}

// NewHandoffDivisionHandler creates a new handoff division handler
func NewHandoffDivisionHandler(world *simulation.World) *HandoffDivisionHandler {
	return &HandoffDivisionHandler{world: world}
}

// Handle executes the handoff division command
func (h *HandoffDivisionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*types.HandoffDivisionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	d, err := h.world.Handoff(cmd.DivisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to hand off division: %w", err)
	}
	return &types.HandoffDivisionResponse{
		DivisionID:   d.ID(),
		Orders:       d.Queue().Len(),
		Background:   d.Background().Len(),
		Subordinates: len(d.Subordinates()),
	}, nil
}
