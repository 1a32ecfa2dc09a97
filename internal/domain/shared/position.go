package shared

import (
	"fmt"
	"math"
)

// Position is an immutable point on the battlefield plane
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition creates a position value
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// DistanceTo calculates Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns p + other
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns p - other
func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns p multiplied by factor
func (p Position) Scale(factor float64) Position {
	return Position{X: p.X * factor, Y: p.Y * factor}
}

// MoveToward steps from p toward target by at most maxStep.
// Returns the new position and whether the target was reached.
func (p Position) MoveToward(target Position, maxStep float64) (Position, bool) {
	dist := p.DistanceTo(target)
	if dist <= maxStep || dist == 0 {
		return target, true
	}
	if maxStep <= 0 {
		return p, false
	}
	dir := target.Sub(p).Scale(1 / dist)
	return p.Add(dir.Scale(maxStep)), false
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}
