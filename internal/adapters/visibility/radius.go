package visibility

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
)

// SightRadius lets an observer see every division within its average
// sight radius. Destroyed divisions are never visible.
type SightRadius struct {
	// Floor is the minimum radius used for any observer
	Floor float64
}

// NewSightRadius creates a sight-radius visibility provider
func NewSightRadius(floor float64) *SightRadius {
	return &SightRadius{Floor: floor}
}

// VisiblePeers implements simulation.VisibilityProvider
func (s *SightRadius) VisiblePeers(observer *division.Division, all []*division.Division) []*division.Division {
	radius := observer.Stats().AverageSight
	if radius < s.Floor {
		radius = s.Floor
	}

	var seen []*division.Division
	for _, d := range all {
		if d.ID() == observer.ID() || d.IsDestroyed() {
			continue
		}
		if observer.Position().DistanceTo(d.Position()) <= radius {
			seen = append(seen, d)
		}
	}
	return seen
}
