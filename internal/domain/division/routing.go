package division

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// SendOrdersTo routes orders to target through the known command tree.
//
// A path of length one means target is this division and the orders are
// filed directly. Any longer path sends a one-soldier courier carrying a
// Locate then Deliver pair and a Rejoin that brings it home afterwards; the
// courier may be lost on the way, in which case the orders are lost with it. A target missing from the known tree
// yields a TargetNotFoundError and no courier.
func (d *Division) SendOrdersTo(target shared.DivisionID, orders []order.Order, t shared.Tick) (order.Dispatch, error) {
	if d.destroyed {
		return order.Dispatch{}, shared.NewDivisionDestroyedError(d.id)
	}
	if snap, ok := d.memory.Get(target); ok && snap.Destroyed {
		return order.Dispatch{}, shared.NewDivisionDestroyedError(target)
	}
	for _, o := range orders {
		if o.Meta().CommanderSendingOrderID.IsZero() {
			o.Meta().CommanderSendingOrderID = d.id
		}
	}

	path, found := d.FindPath(target)
	if !found {
		return order.Dispatch{}, shared.NewTargetNotFoundError(d.id, target)
	}
	if len(path) == 1 {
		d.ReceiveOrders(orders)
		return order.Dispatch{Direct: true, Path: path}, nil
	}

	clock := t.Clock
	if clock == nil {
		clock = shared.NewLogicalClock(t.Now, 0)
	}
	courier, ok := d.TryCreateNewDivision(clock)
	if !ok {
		return order.Dispatch{Path: path}, shared.NewInsufficientSoldierCountError(d.id, d.SoldierCount())
	}
	courier.courier = true
	courier.queue.Enqueue(
		order.NewLocate(d.id, target, d.deliveryRange),
		order.NewDeliver(d.id, target, orders, d.deliveryRange),
		order.NewRejoin(d.id, target, d.deliveryRange),
	)
	d.record(EventCourierDispatched, t.Now, target, courier.id.String())
	return order.Dispatch{CourierID: courier.id, Path: path}, nil
}

// FindPath returns the chain-of-command path from this division to target:
// up to the root of the known tree, then down to target. The path never
// repeats a division.
func (d *Division) FindPath(target shared.DivisionID) ([]shared.DivisionID, bool) {
	up := d.pathToRoot()
	root := up[len(up)-1]

	down, found := d.searchDown(root, target)
	if !found {
		// the walk up may have stopped at a division we know too little
		// about; our own subtree is still ours to search
		down, found = d.searchDown(d.id, target)
		if !found {
			return nil, false
		}
		up = up[:1]
	}
	return collapseCycles(append(up, down[1:]...)), true
}

// pathToRoot follows commanders upward, stopping at a root, at an unknown
// division, or at the first repeat
func (d *Division) pathToRoot() []shared.DivisionID {
	path := []shared.DivisionID{d.id}
	seen := map[shared.DivisionID]bool{d.id: true}
	node := d.id
	for {
		next, ok := d.commanderOf(node)
		if !ok || next == node || seen[next] {
			return path
		}
		if _, known := d.nodeChildren(next); !known {
			return path
		}
		seen[next] = true
		path = append(path, next)
		node = next
	}
}

// searchDown is a depth-first search through subordinate edges with a
// visited set; edges back to a visited node are skipped. Destroyed
// divisions are neither entered nor returned.
func (d *Division) searchDown(root, target shared.DivisionID) ([]shared.DivisionID, bool) {
	visited := map[shared.DivisionID]bool{}
	var path []shared.DivisionID

	var visit func(node shared.DivisionID) bool
	visit = func(node shared.DivisionID) bool {
		if visited[node] {
			return false
		}
		visited[node] = true
		children, known := d.nodeChildren(node)
		if !known {
			return false
		}
		path = append(path, node)
		if node == target {
			return true
		}
		for _, c := range children {
			if visit(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if visit(root) {
		return path, true
	}
	return nil, false
}

func (d *Division) commanderOf(id shared.DivisionID) (shared.DivisionID, bool) {
	if id == d.id {
		return d.commander, true
	}
	snap, ok := d.memory.Get(id)
	if !ok || snap.Destroyed {
		return 0, false
	}
	return snap.Commander, true
}

// nodeChildren returns the subordinates of id as this division knows them
func (d *Division) nodeChildren(id shared.DivisionID) ([]shared.DivisionID, bool) {
	if id == d.id {
		return d.Subordinates(), true
	}
	snap, ok := d.memory.Get(id)
	if !ok || snap.Destroyed {
		return nil, false
	}
	return snap.Subordinates, true
}

// collapseCycles scans left to right with a stack; when a division repeats,
// the stack is popped back to its earlier occurrence
func collapseCycles(path []shared.DivisionID) []shared.DivisionID {
	stack := make([]shared.DivisionID, 0, len(path))
	at := make(map[shared.DivisionID]int, len(path))
	for _, id := range path {
		if i, seen := at[id]; seen {
			for _, popped := range stack[i+1:] {
				delete(at, popped)
			}
			stack = stack[:i+1]
			continue
		}
		at[id] = len(stack)
		stack = append(stack, id)
	}
	return stack
}
