package combat

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// LinearDamage deals the attacker's total damage per game second, scaled
// by Multiplier. A target with more soldiers than the attacker absorbs
// part of the blow when Attrition is set.
type LinearDamage struct {
	Multiplier float64
	Attrition  bool
}

// NewLinearDamage creates a linear damage model
func NewLinearDamage(multiplier float64, attrition bool) *LinearDamage {
	if multiplier <= 0 {
		multiplier = 1
	}
	return &LinearDamage{Multiplier: multiplier, Attrition: attrition}
}

// Damage implements division.DamageModel
func (l *LinearDamage) Damage(attacker, target soldier.Stats, dt float64) float64 {
	if dt <= 0 || attacker.Count == 0 {
		return 0
	}
	dmg := attacker.TotalDamage * l.Multiplier * dt
	if l.Attrition && target.Count > attacker.Count {
		dmg *= float64(attacker.Count) / float64(target.Count)
	}
	return dmg
}
