package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Encoding of the primary output: json or text (console)
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// File path; required when output is file, optional JSON copy otherwise
	FilePath string `mapstructure:"file_path"`

	Rotation RotationConfig `mapstructure:"rotation"`

	// Include caller information (file:line)
	IncludeCaller bool `mapstructure:"include_caller"`

	// Attach stack traces to warnings and errors
	IncludeStacktrace bool `mapstructure:"include_stacktrace"`

	// Also write log entries into the run journal
	Journal bool `mapstructure:"journal"`
}

// RotationConfig holds log file rotation configuration
type RotationConfig struct {
	// Maximum size in megabytes before rotation
	MaxSize int `mapstructure:"max_size" validate:"min=1"`

	// Maximum number of old log files to keep
	MaxBackups int `mapstructure:"max_backups" validate:"min=0"`

	// Maximum age in days before deletion
	MaxAge int `mapstructure:"max_age" validate:"min=0"`

	// Compress rotated files
	Compress bool `mapstructure:"compress"`
}
