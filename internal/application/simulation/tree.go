package simulation

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// TreeNode is one division in the live command tree read model
type TreeNode struct {
	ID         shared.DivisionID
	Name       string
	Team       shared.TeamID
	Soldiers   int
	Position   shared.Position
	Courier    bool
	Orders     int
	Current    string
	Background int
	Children   []*TreeNode
}

// CommandTree returns the live command forest. Roots are divisions that
// command themselves or whose commander is gone; a division caught in a
// commander cycle is listed as a root rather than dropped.
func (w *World) CommandTree() []*TreeNode {
	all := w.Divisions()
	nodes := make(map[shared.DivisionID]*TreeNode, len(all))
	for _, d := range all {
		nodes[d.ID()] = &TreeNode{
			ID:         d.ID(),
			Name:       d.Name(),
			Team:       d.Team(),
			Soldiers:   d.SoldierCount(),
			Position:   d.Position(),
			Courier:    d.IsCourier(),
			Orders:     d.Queue().Len(),
			Background: d.Background().Len(),
		}
		if o := d.Queue().Ongoing(); o != nil {
			nodes[d.ID()].Current = string(o.Kind())
		}
	}

	var roots []*TreeNode
	for _, d := range all {
		node := nodes[d.ID()]
		parent, ok := nodes[d.Commander()]
		if d.IsRoot() || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	reached := make(map[shared.DivisionID]bool, len(all))
	var mark func(n *TreeNode)
	mark = func(n *TreeNode) {
		if reached[n.ID] {
			return
		}
		reached[n.ID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for _, d := range all {
		if reached[d.ID()] {
			continue
		}
		node := nodes[d.ID()]
		if parent, ok := nodes[d.Commander()]; ok {
			parent.Children = removeChild(parent.Children, node.ID)
		}
		roots = append(roots, node)
		mark(node)
	}
	return roots
}

func removeChild(children []*TreeNode, id shared.DivisionID) []*TreeNode {
	out := children[:0]
	for _, c := range children {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
