package simulation

import (
	"fmt"

	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
)

// TombstoneScope selects who learns of a destruction immediately
type TombstoneScope string

const (
	// ScopeAllies tombstones every same-team copy at once
	ScopeAllies TombstoneScope = "allies"
	// ScopeWitnesses tombstones only copies held by divisions that see it
	// happen; everyone else learns through gossip
	ScopeWitnesses TombstoneScope = "witnesses"
)

// Settings are the tunables of one simulation
type Settings struct {
	Epsilon           float64
	TieBreak          intel.TieBreakPolicy
	TombstoneScope    TombstoneScope
	DeliveryRange     float64
	HeartbeatInterval float64
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Epsilon:           shared.DefaultEpsilon,
		TieBreak:          intel.DefaultTieBreak,
		TombstoneScope:    ScopeAllies,
		DeliveryRange:     order.DefaultDeliveryRange,
		HeartbeatInterval: 0,
	}
}

// Validate checks the settings for values the simulation cannot run with
func (s Settings) Validate() error {
	if s.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative")
	}
	if _, err := intel.ParseTieBreakPolicy(string(s.TieBreak)); err != nil {
		return err
	}
	switch s.TombstoneScope {
	case ScopeAllies, ScopeWitnesses, "":
	default:
		return fmt.Errorf("unknown tombstone scope %q", s.TombstoneScope)
	}
	if s.DeliveryRange < 0 {
		return fmt.Errorf("delivery range must not be negative")
	}
	return nil
}
