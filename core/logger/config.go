package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level that gets logged ("debug" or "info").
	Level string `mapstructure:"level" default:"info"`
	// Format selects the log encoding, "json" or "console".
	Format string `mapstructure:"format" default:"json"`
}
