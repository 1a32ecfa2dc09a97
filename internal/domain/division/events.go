package division

import (
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// EventType names a domain event
type EventType string

const (
	EventDivisionSpawned     EventType = "DIVISION_SPAWNED"
	EventCourierDispatched   EventType = "COURIER_DISPATCHED"
	EventOrdersDelivered     EventType = "ORDERS_DELIVERED"
	EventCommanderReassigned EventType = "COMMANDER_REASSIGNED"
	EventCommandMerged       EventType = "COMMAND_MERGED"
	EventDivisionDestroyed   EventType = "DIVISION_DESTROYED"
	EventCourierLost         EventType = "COURIER_LOST"
	EventOrderEnded          EventType = "ORDER_ENDED"
	EventControlHandedOff    EventType = "CONTROL_HANDED_OFF"
)

// Event is an observable fact produced while processing a tick.
// Events carry no behavior; the world drains them for logs, metrics and
// the journal.
type Event struct {
	Type     EventType
	At       shared.SimTime
	Division shared.DivisionID
	Other    shared.DivisionID
	Detail   string
}

func (e Event) String() string {
	if e.Other.IsZero() {
		return fmt.Sprintf("%s %s %s %s", e.At, e.Type, e.Division, e.Detail)
	}
	return fmt.Sprintf("%s %s %s->%s %s", e.At, e.Type, e.Division, e.Other, e.Detail)
}

// Effect is a request from one division to change another. Divisions never
// mutate each other directly; the owner of all divisions applies effects
// in one pass after every division has been processed.
type Effect interface {
	Source() shared.DivisionID
}

// DamageEffect deals Amount damage to Target
type DamageEffect struct {
	From   shared.DivisionID
	Target shared.DivisionID
	Amount float64
}

// DeliveryEffect hands Orders to Target
type DeliveryEffect struct {
	From   shared.DivisionID
	Target shared.DivisionID
	Orders []order.Order
}

// JoinEffect folds From's soldiers into Target and retires From
type JoinEffect struct {
	From   shared.DivisionID
	Target shared.DivisionID
}

// SpawnEffect registers a division split off by From
type SpawnEffect struct {
	From  shared.DivisionID
	Child *Division
}

// ReassignEffect tells Subject that Observer is its new commander because
// Previous is known to be destroyed
type ReassignEffect struct {
	Observer shared.DivisionID
	Subject  shared.DivisionID
	Previous shared.DivisionID
	Stamp    shared.SimTime
}

func (e DamageEffect) Source() shared.DivisionID   { return e.From }
func (e DeliveryEffect) Source() shared.DivisionID { return e.From }
func (e JoinEffect) Source() shared.DivisionID     { return e.From }
func (e SpawnEffect) Source() shared.DivisionID    { return e.From }
func (e ReassignEffect) Source() shared.DivisionID { return e.Observer }
