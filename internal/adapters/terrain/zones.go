package terrain

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Zone is a circular area with its own movement factor
type Zone struct {
	Center shared.Position
	Radius float64
	Factor float64
}

// Contains reports whether p lies inside the zone
func (z Zone) Contains(p shared.Position) bool {
	return z.Center.DistanceTo(p) <= z.Radius
}

// Map is a terrain cost provider made of circular zones on open ground.
// Where zones overlap the slowest factor applies.
type Map struct {
	zones []Zone
	open  float64
}

// NewUniform creates terrain with the same factor everywhere
func NewUniform(factor float64) *Map {
	if factor <= 0 {
		factor = 1
	}
	return &Map{open: factor}
}

// NewMap creates zoned terrain; zones with a non-positive radius or factor
// are ignored
func NewMap(zones ...Zone) *Map {
	m := &Map{open: 1}
	for _, z := range zones {
		if z.Radius > 0 && z.Factor > 0 {
			m.zones = append(m.zones, z)
		}
	}
	return m
}

// Zones returns the zones in declaration order
func (m *Map) Zones() []Zone {
	out := make([]Zone, len(m.zones))
	copy(out, m.zones)
	return out
}

// MovementCost implements division.TerrainCostProvider
func (m *Map) MovementCost(pos shared.Position) float64 {
	factor := m.open
	matched := false
	for _, z := range m.zones {
		if !z.Contains(pos) {
			continue
		}
		if !matched || z.Factor < factor {
			factor = z.Factor
			matched = true
		}
	}
	return factor
}
