package config

// MetricsConfig holds metrics collection and exposure configuration
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served during runs
	Enabled bool `mapstructure:"enabled"`

	// Port for the HTTP metrics server (Prometheus endpoint)
	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the metrics HTTP server
	Host string `mapstructure:"host"`

	// Path for the metrics endpoint
	Path string `mapstructure:"path"`

	// Keep serving for this many seconds after a run finishes so the
	// final values can be scraped
	Linger int `mapstructure:"linger" validate:"gte=0"`
}
