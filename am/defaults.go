package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/somatic"
)

// DefaultDatabasePath is the journal file used when database.path is unset.
const DefaultDatabasePath = "moodmap.db"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.language", string(catalog.EN))

	v.SetDefault("database.path", DefaultDatabasePath)

	p := somatic.DefaultParams()
	v.SetDefault("somatic.min_score", p.MinScore)
	v.SetDefault("somatic.max_results", p.MaxResults)
	v.SetDefault("somatic.strong_ratio", p.StrongRatio)
	v.SetDefault("somatic.strong_floor", p.StrongFloor)
	v.SetDefault("somatic.possible_ratio", p.PossibleRatio)
	v.SetDefault("somatic.possible_floor", p.PossibleFloor)

	v.SetDefault("crisis.escalation_window_days", 7)
	v.SetDefault("crisis.escalation_min_sessions", 3)

	v.SetDefault("registry.lazy", []string{somatic.ModelID})
	v.SetDefault("registry.load_timeout_seconds", 10)

	v.SetDefault("log.json", false)
}

// BindEnvVars binds the settings most often overridden per invocation.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "MOODMAP_DATABASE_PATH")
	v.BindEnv("catalog.path", "MOODMAP_CATALOG_PATH")
	v.BindEnv("catalog.language", "MOODMAP_CATALOG_LANGUAGE")
}

// GetDatabasePath returns the journal path, falling back to the default.
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetLanguage returns the configured output language.
func (c *Config) GetLanguage() (catalog.Lang, error) {
	return catalog.ParseLang(c.Catalog.Language)
}

// GetSomaticParams returns the somatic scoring parameters.
func (c *Config) GetSomaticParams() somatic.Params {
	return somatic.Params{
		MinScore:      c.Somatic.MinScore,
		MaxResults:    c.Somatic.MaxResults,
		StrongRatio:   c.Somatic.StrongRatio,
		StrongFloor:   c.Somatic.StrongFloor,
		PossibleRatio: c.Somatic.PossibleRatio,
		PossibleFloor: c.Somatic.PossibleFloor,
	}
}

// GetEscalationWindow returns the escalation window as a duration.
func (c *Config) GetEscalationWindow() time.Duration {
	return time.Duration(c.Crisis.EscalationWindowDays) * 24 * time.Hour
}

// GetEscalationPolicy returns the temporal escalation policy. A zero window
// disables escalation.
func (c *Config) GetEscalationPolicy() crisis.Policy {
	return crisis.Policy{
		Window:      c.GetEscalationWindow(),
		MinSessions: c.Crisis.EscalationMinSessions,
	}
}

// GetLoadTimeout returns how long a host waits for a model to load. Zero
// means wait indefinitely.
func (c *Config) GetLoadTimeout() time.Duration {
	return time.Duration(c.Registry.LoadTimeoutSeconds) * time.Second
}

// String returns a short summary of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Catalog: %q, Language: %s, Database: %s, Lazy: %v}",
		c.Catalog.Path, c.Catalog.Language, c.GetDatabasePath(), c.Registry.Lazy)
}
