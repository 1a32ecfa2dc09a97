package division

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// TerrainCostProvider supplies the movement-cost multiplier at a position
type TerrainCostProvider interface {
	MovementCost(pos shared.Position) float64
}

// DamageModel resolves how much damage an attacker deals in dt game seconds
type DamageModel interface {
	Damage(attacker, target soldier.Stats, dt float64) float64
}

type flatTerrain struct{}

func (flatTerrain) MovementCost(shared.Position) float64 { return 1 }

type sustainedFire struct{}

func (sustainedFire) Damage(attacker, _ soldier.Stats, dt float64) float64 {
	return attacker.TotalDamage * dt
}
