package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// AdvanceTicksHandler - Handles advance ticks commands
type AdvanceTicksHandler struct {
	world *simulation.World
}

// NewAdvanceTicksHandler creates a new advance ticks handler
func NewAdvanceTicksHandler(world *simulation.World) *AdvanceTicksHandler {
	return &AdvanceTicksHandler{world: world}
}

// Handle executes the advance ticks command
func (h *AdvanceTicksHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*types.AdvanceTicksCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Ticks < 0 || cmd.Delta < 0 {
		return nil, fmt.Errorf("ticks and delta must not be negative")
	}

	resp := &types.AdvanceTicksResponse{Reports: make([]*simulation.TickReport, 0, cmd.Ticks)}
	for i := 0; i < cmd.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		report, err := h.world.Tick(ctx, cmd.Delta, cmd.Paused)
		if report != nil {
			resp.Reports = append(resp.Reports, report)
		}
		if err != nil {
			return resp, fmt.Errorf("tick %d failed: %w", h.world.Ticks(), err)
		}
	}
	return resp, nil
}
