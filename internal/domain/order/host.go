package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// Host is the view an order has of the division executing it
type Host interface {
	ID() shared.DivisionID
	Team() shared.TeamID
	Commander() shared.DivisionID
	Position() shared.Position
	Stats() soldier.Stats

	// MoveToward steps toward target for dt game seconds and reports arrival
	MoveToward(target shared.Position, dt float64) bool
	// Halt zeroes the host's velocity
	Halt()

	// LookupVisible returns a fresh view of a division in sight right now
	LookupVisible(id shared.DivisionID) (*intel.RememberedDivision, bool)
	// Remembered returns the newest snapshot the host holds for id
	Remembered(id shared.DivisionID) (*intel.RememberedDivision, bool)
	// VisibleEnemies lists fresh views of visible divisions of other teams
	VisibleEnemies() []*intel.RememberedDivision

	// Attack resolves one tick of combat and reports whether the target died
	Attack(target shared.DivisionID, dt float64) (bool, error)
	// DeliverOrders hands orders to a visible division within delivery range
	DeliverOrders(target shared.DivisionID, orders []Order) error
	// JoinDivision merges the host's soldiers into a visible division
	JoinDivision(target shared.DivisionID) error
	// SendOrdersTo routes orders through the chain of command
	SendOrdersTo(target shared.DivisionID, orders []Order, t shared.Tick) (Dispatch, error)

	// Ingest merges snapshots into the host's memory
	Ingest(snapshots []*intel.RememberedDivision, t shared.Tick)
	// MemorySnapshots returns everything the host remembers
	MemorySnapshots() []*intel.RememberedDivision
	// Describe captures the host itself as a snapshot at stamp
	Describe(stamp shared.SimTime) *intel.RememberedDivision

	// Recruit adds one soldier minted from the template
	Recruit(t soldier.Template) error
}
