package types

import (
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// AdvanceTicksCommand runs the simulation forward
type AdvanceTicksCommand struct {
	Ticks  int
	Delta  float64
	Paused bool
}

// AdvanceTicksResponse carries one report per processed tick
type AdvanceTicksResponse struct {
	Reports []*simulation.TickReport
}

// SpawnDivisionCommand creates a division
type SpawnDivisionCommand struct {
	Spec simulation.SpawnSpec
}

// SpawnDivisionResponse identifies the created division
type SpawnDivisionResponse struct {
	DivisionID shared.DivisionID
}

// IssueOrdersCommand routes orders from one division to another
type IssueOrdersCommand struct {
	From   shared.DivisionID
	To     shared.DivisionID
	Orders []order.Order
}

// IssueOrdersResponse describes how the orders left the sender
type IssueOrdersResponse struct {
	Dispatch order.Dispatch
}

// DestroyDivisionCommand eliminates a division
type DestroyDivisionCommand struct {
	DivisionID shared.DivisionID
	By         shared.DivisionID
}

// DestroyDivisionResponse confirms the destruction
type DestroyDivisionResponse struct {
	Status string
}

// HandoffDivisionCommand moves a division to a new controller object
type HandoffDivisionCommand struct {
	DivisionID shared.DivisionID
}

// HandoffDivisionResponse reports what the new controller inherited
type HandoffDivisionResponse struct {
	DivisionID   shared.DivisionID
	Orders       int
	Background   int
	Subordinates int
}

// CommandTreeQuery reads the live command forest
type CommandTreeQuery struct{}

// CommandTreeResponse is the live command forest
type CommandTreeResponse struct {
	Roots []*simulation.TreeNode
	Tick  int64
	Now   shared.SimTime
}
