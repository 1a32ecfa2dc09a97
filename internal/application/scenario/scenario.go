package scenario

import (
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// Scenario is a declarative battle setup plus a script of events keyed by tick
type Scenario struct {
	Name      string             `yaml:"name" validate:"required"`
	Ticks     int                `yaml:"ticks" validate:"gte=0"`
	Delta     float64            `yaml:"delta" validate:"gte=0"`
	Settings  SettingsSpec       `yaml:"settings"`
	Templates []soldier.Template `yaml:"templates,omitempty" validate:"dive"`
	Terrain   []ZoneSpec         `yaml:"terrain,omitempty" validate:"dive"`
	Divisions []DivisionSpec     `yaml:"divisions" validate:"required,min=1,dive"`
	Script    []ScriptedEvent    `yaml:"script,omitempty" validate:"dive"`
}

// SettingsSpec overrides simulation settings; zero values keep the defaults
type SettingsSpec struct {
	Epsilon           float64 `yaml:"epsilon" validate:"gte=0"`
	TieBreak          string  `yaml:"tie_break" validate:"omitempty,tie_break"`
	TombstoneScope    string  `yaml:"tombstone_scope" validate:"omitempty,oneof=allies witnesses"`
	DeliveryRange     float64 `yaml:"delivery_range" validate:"gte=0"`
	HeartbeatInterval float64 `yaml:"heartbeat_interval" validate:"gte=0"`
}

// ZoneSpec is a circular patch of terrain with a movement cost multiplier
type ZoneSpec struct {
	Center shared.Position `yaml:"center"`
	Radius float64         `yaml:"radius" validate:"gt=0"`
	Cost   float64         `yaml:"cost" validate:"gt=0"`
}

// DivisionSpec describes one starting division. Commanders are referenced
// by name and must be declared earlier.
type DivisionSpec struct {
	Name      string          `yaml:"name" validate:"required"`
	Team      int             `yaml:"team"`
	Position  shared.Position `yaml:"position"`
	Soldiers  int             `yaml:"soldiers" validate:"gte=1"`
	Template  string          `yaml:"template"`
	Commander string          `yaml:"commander"`
}

// Scripted actions
const (
	ActionOrders  = "orders"
	ActionDestroy = "destroy"
	ActionHandoff = "handoff"
)

// ScriptedEvent happens right before the given tick is processed
type ScriptedEvent struct {
	Tick   int         `yaml:"tick" validate:"gte=0"`
	Action string      `yaml:"action" validate:"required,oneof=orders destroy handoff"`
	From   string      `yaml:"from"`
	To     string      `yaml:"to"`
	Orders []OrderSpec `yaml:"orders,omitempty" validate:"dive"`
}

// OrderSpec is the file form of an order
type OrderSpec struct {
	Kind        string           `yaml:"kind" validate:"required,oneof=move wait attack engage recruit report sequence"`
	Destination *shared.Position `yaml:"destination,omitempty"`
	Seconds     float64          `yaml:"seconds" validate:"gte=0"`
	Target      string           `yaml:"target"`
	Template    string           `yaml:"template"`
	Cap         int              `yaml:"cap" validate:"gte=0"`
	Interval    float64          `yaml:"interval" validate:"gte=0"`
	Orders      []OrderSpec      `yaml:"orders,omitempty" validate:"dive"`
}

// SimulationSettings merges the overrides into the default settings
func (s *Scenario) SimulationSettings() (simulation.Settings, error) {
	return s.ApplySettings(simulation.DefaultSettings())
}

// ApplySettings merges the overrides into base
func (s *Scenario) ApplySettings(base simulation.Settings) (simulation.Settings, error) {
	settings := base
	if s.Settings.Epsilon > 0 {
		settings.Epsilon = s.Settings.Epsilon
	}
	if s.Settings.TieBreak != "" {
		p, err := intel.ParseTieBreakPolicy(s.Settings.TieBreak)
		if err != nil {
			return settings, err
		}
		settings.TieBreak = p
	}
	if s.Settings.TombstoneScope != "" {
		settings.TombstoneScope = simulation.TombstoneScope(s.Settings.TombstoneScope)
	}
	if s.Settings.DeliveryRange > 0 {
		settings.DeliveryRange = s.Settings.DeliveryRange
	}
	if s.Settings.HeartbeatInterval > 0 {
		settings.HeartbeatInterval = s.Settings.HeartbeatInterval
	}
	return settings, settings.Validate()
}

// Template looks up a soldier template by name. An empty name selects the
// default template.
func (s *Scenario) Template(name string) (soldier.Template, error) {
	if name == "" || name == soldier.DefaultTemplate.Name {
		for _, t := range s.Templates {
			if t.Name == soldier.DefaultTemplate.Name {
				return t, nil
			}
		}
		return soldier.DefaultTemplate, nil
	}
	for _, t := range s.Templates {
		if t.Name == name {
			return t, nil
		}
	}
	return soldier.Template{}, fmt.Errorf("unknown soldier template %q", name)
}

// CheckReferences verifies that every name used by the scenario resolves.
// Struct-level validation is done by the loader.
func (s *Scenario) CheckReferences() error {
	declared := make(map[string]bool, len(s.Divisions))
	for _, d := range s.Divisions {
		if declared[d.Name] {
			return fmt.Errorf("division %q declared twice", d.Name)
		}
		if d.Commander != "" && !declared[d.Commander] {
			return fmt.Errorf("division %q: commander %q must be declared before it", d.Name, d.Commander)
		}
		if _, err := s.Template(d.Template); err != nil {
			return fmt.Errorf("division %q: %w", d.Name, err)
		}
		declared[d.Name] = true
	}

	for i, e := range s.Script {
		switch e.Action {
		case ActionOrders:
			if e.From == "" || e.To == "" || len(e.Orders) == 0 {
				return fmt.Errorf("script[%d]: orders need from, to and at least one order", i)
			}
		case ActionDestroy, ActionHandoff:
			if e.To == "" {
				return fmt.Errorf("script[%d]: %s needs a target in 'to'", i, e.Action)
			}
		}
		// division names in events are resolved when the event fires
		if err := s.checkOrderTemplates(e.Orders); err != nil {
			return fmt.Errorf("script[%d]: %w", i, err)
		}
	}
	return nil
}

func (s *Scenario) checkOrderTemplates(specs []OrderSpec) error {
	for _, o := range specs {
		if o.Kind == "recruit" {
			if _, err := s.Template(o.Template); err != nil {
				return err
			}
		}
		if err := s.checkOrderTemplates(o.Orders); err != nil {
			return err
		}
	}
	return nil
}
