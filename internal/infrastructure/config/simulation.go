package config

// SimulationConfig holds the tunables of the battle simulation
type SimulationConfig struct {
	// Game seconds per tick
	TickDelta float64 `mapstructure:"tick_delta" validate:"gt=0"`

	// Wall-clock pacing; 0 runs as fast as possible
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"gte=0"`

	// Clock increment per stamped event within one tick
	Epsilon float64 `mapstructure:"epsilon" validate:"gt=0"`

	// Resolution of equal-timestamp snapshot merges
	TieBreak string `mapstructure:"tie_break" validate:"required,tie_break"`

	// Who learns of a destruction immediately: allies or witnesses
	TombstoneScope string `mapstructure:"tombstone_scope" validate:"required,oneof=allies witnesses"`

	// Distance within which couriers hand over orders
	DeliveryRange float64 `mapstructure:"delivery_range" validate:"gt=0"`

	// Game seconds between intelligence reports to the commander; 0 disables
	HeartbeatInterval float64 `mapstructure:"heartbeat_interval" validate:"gte=0"`

	// Minimum sight radius of any division
	SightFloor float64 `mapstructure:"sight_floor" validate:"gte=0"`

	// Damage multiplier and attrition switch of the combat model
	DamageMultiplier float64 `mapstructure:"damage_multiplier" validate:"gt=0"`
	Attrition        bool    `mapstructure:"attrition"`
}
