package soldier

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// Soldier is a single combatant. Its figures come from the combat
// collaborator; the command core only aggregates them.
type Soldier struct {
	Health      float64
	Damage      float64
	Speed       float64
	SightRadius float64
	WeaponRange float64
	Supply      float64
}

// NewSoldier creates a soldier with validation
func NewSoldier(health, damage, speed, sight, weaponRange, supply float64) (*Soldier, error) {
	s := &Soldier{
		Health:      health,
		Damage:      damage,
		Speed:       speed,
		SightRadius: sight,
		WeaponRange: weaponRange,
		Supply:      supply,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Soldier) validate() error {
	if s.Health <= 0 {
		return shared.NewValidationError("health", "must be positive")
	}
	if s.Damage < 0 {
		return shared.NewValidationError("damage", "cannot be negative")
	}
	if s.Speed < 0 {
		return shared.NewValidationError("speed", "cannot be negative")
	}
	if s.SightRadius < 0 {
		return shared.NewValidationError("sight_radius", "cannot be negative")
	}
	if s.WeaponRange < 0 {
		return shared.NewValidationError("weapon_range", "cannot be negative")
	}
	if s.Supply < 0 {
		return shared.NewValidationError("supply", "cannot be negative")
	}
	return nil
}

// TakeDamage reduces health, never below zero
func (s *Soldier) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	s.Health -= amount
	if s.Health < 0 {
		s.Health = 0
	}
}

// IsDead returns true once health is exhausted
func (s *Soldier) IsDead() bool {
	return s.Health <= 0
}

// Clone returns an independent copy
func (s *Soldier) Clone() *Soldier {
	c := *s
	return &c
}

// Template mints identical soldiers (recruitment, scenario setup)
type Template struct {
	Name        string  `yaml:"name" mapstructure:"name" validate:"required"`
	Health      float64 `yaml:"health" mapstructure:"health" validate:"gt=0"`
	Damage      float64 `yaml:"damage" mapstructure:"damage" validate:"gte=0"`
	Speed       float64 `yaml:"speed" mapstructure:"speed" validate:"gte=0"`
	SightRadius float64 `yaml:"sight_radius" mapstructure:"sight_radius" validate:"gte=0"`
	WeaponRange float64 `yaml:"weapon_range" mapstructure:"weapon_range" validate:"gte=0"`
	Supply      float64 `yaml:"supply" mapstructure:"supply" validate:"gte=0"`
}

// DefaultTemplate is a plain line infantryman
var DefaultTemplate = Template{
	Name:        "infantry",
	Health:      100,
	Damage:      10,
	Speed:       5,
	SightRadius: 50,
	WeaponRange: 10,
	Supply:      20,
}

// New mints one soldier from the template
func (t Template) New() (*Soldier, error) {
	return NewSoldier(t.Health, t.Damage, t.Speed, t.SightRadius, t.WeaponRange, t.Supply)
}

// NewMany mints count soldiers from the template
func (t Template) NewMany(count int) ([]*Soldier, error) {
	out := make([]*Soldier, 0, count)
	for i := 0; i < count; i++ {
		s, err := t.New()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
