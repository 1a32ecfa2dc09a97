package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// IssueOrdersHandler - Handles issue orders commands
type IssueOrdersHandler struct {
	world *simulation.World
}

// NewIssueOrdersHandler creates a new issue orders handler
func NewIssueOrdersHandler(world *simulation.World) *IssueOrdersHandler {
	return &IssueOrdersHandler{world: world}
}

// Handle executes the issue orders command
func (h *IssueOrdersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*types.IssueOrdersCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if len(cmd.Orders) == 0 {
		return nil, fmt.Errorf("no orders to issue")
	}

	dispatch, err := h.world.IssueOrders(cmd.From, cmd.To, cmd.Orders)
	if err != nil {
		return nil, fmt.Errorf("failed to route orders from %s to %s: %w", cmd.From, cmd.To, err)
	}

	metadata := map[string]interface{}{
		"from":   cmd.From.String(),
		"to":     cmd.To.String(),
		"orders": len(cmd.Orders),
		"hops":   dispatch.Hops(),
	}
	if dispatch.Direct {
		logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "orders filed directly", metadata)
	} else {
		metadata["courier"] = dispatch.CourierID.String()
		logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "orders sent by courier", metadata)
	}
	return &types.IssueOrdersResponse{Dispatch: dispatch}, nil
}
