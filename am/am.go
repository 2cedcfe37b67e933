// Package am loads moodmap's configuration from TOML files and MOODMAP_*
// environment variables.
package am

// Config is the moodmap configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Somatic  SomaticConfig  `mapstructure:"somatic"`
	Crisis   CrisisConfig   `mapstructure:"crisis"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
}

// CatalogConfig selects the data feed and output language.
type CatalogConfig struct {
	Path     string `mapstructure:"path"`     // directory overriding the embedded feed (empty = embedded)
	Language string `mapstructure:"language"` // en or it
}

// DatabaseConfig configures the session journal.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SomaticConfig tunes body-sensation scoring.
type SomaticConfig struct {
	MinScore      float64 `mapstructure:"min_score"`
	MaxResults    int     `mapstructure:"max_results"`
	StrongRatio   float64 `mapstructure:"strong_ratio"`
	StrongFloor   float64 `mapstructure:"strong_floor"`
	PossibleRatio float64 `mapstructure:"possible_ratio"`
	PossibleFloor float64 `mapstructure:"possible_floor"`
}

// CrisisConfig configures temporal escalation.
type CrisisConfig struct {
	EscalationWindowDays  int `mapstructure:"escalation_window_days"`  // 0 disables escalation
	EscalationMinSessions int `mapstructure:"escalation_min_sessions"` // 0 disables escalation
}

// RegistryConfig configures model loading.
type RegistryConfig struct {
	Lazy               []string `mapstructure:"lazy"`                 // models loaded on first use
	LoadTimeoutSeconds int      `mapstructure:"load_timeout_seconds"` // how long the CLI waits for a model
}

// LogConfig configures logging.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
