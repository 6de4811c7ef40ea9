package config

// Config holds all application configuration, organized into logical groups.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Datamuse DatamuseConfig `mapstructure:"datamuse"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the durable store settings. URL is deliberately
// optional: an absent or malformed value is a supported configuration state
// in which durable persistence disables itself and the engine runs
// cache-only.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// DatamuseConfig contains the word-association lookup settings. An empty
// base URL selects the public Datamuse endpoint; Enabled false disables the
// lookup entirely.
type DatamuseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}
