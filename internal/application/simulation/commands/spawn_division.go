package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// SpawnDivisionHandler - Handles spawn division commands
type SpawnDivisionHandler struct {
	world *simulation.World
}

// NewSpawnDivisionHandler creates a new spawn division handler
func NewSpawnDivisionHandler(world *simulation.World) *SpawnDivisionHandler {
	return &SpawnDivisionHandler{world: world}
}

// Handle executes the spawn division command
func (h *SpawnDivisionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*types.SpawnDivisionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	d, err := h.world.Spawn(cmd.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn division %q: %w", cmd.Spec.Name, err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "division spawned", map[string]interface{}{
		"division": d.ID().String(),
		"name":     d.Name(),
		"team":     int(d.Team()),
		"soldiers": d.SoldierCount(),
	})
	return &types.SpawnDivisionResponse{DivisionID: d.ID()}, nil
}
