package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

func TestLinearDamage(t *testing.T) {
	attacker := soldier.Stats{Count: 2, TotalDamage: 20}
	small := soldier.Stats{Count: 1}
	large := soldier.Stats{Count: 8}

	tests := []struct {
		name   string
		model  *LinearDamage
		target soldier.Stats
		dt     float64
		want   float64
	}{
		{"plain", NewLinearDamage(1, false), large, 0.5, 10},
		{"multiplier", NewLinearDamage(2, false), small, 1, 40},
		{"attrition against larger target", NewLinearDamage(1, true), large, 1, 5},
		{"attrition ignored against smaller target", NewLinearDamage(1, true), small, 1, 20},
		{"no time passes", NewLinearDamage(1, false), small, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.model.Damage(attacker, tt.target, tt.dt), 1e-9)
		})
	}
}

func TestLinearDamage_EmptyAttackerDealsNothing(t *testing.T) {
	assert.Zero(t, NewLinearDamage(1, false).Damage(soldier.Stats{}, soldier.Stats{Count: 1}, 1))
}
