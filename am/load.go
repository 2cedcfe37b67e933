package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/moodmap/errors"
)

// EnvPrefix prefixes every environment override, e.g. MOODMAP_LOG_JSON.
const EnvPrefix = "MOODMAP"

// ProjectConfigName is the file searched for from the working directory up.
const ProjectConfigName = "am.toml"

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file set each key during the last load.
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the configuration, caching the result.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads defaults plus a single file, ignoring the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper builds the merged Viper instance. Callers hold mu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// ConfigPaths returns the candidate config files in precedence order, lowest
// first. Missing files are included.
func ConfigPaths() []ConfigPath {
	paths := []ConfigPath{
		{Source: SourceSystem, Path: "/etc/moodmap/am.toml"},
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, ConfigPath{Source: SourceUser, Path: UserConfigPath(home)})
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, ConfigPath{Source: SourceProject, Path: project})
	}
	return paths
}

// ConfigPath is a config file and the source it counts as.
type ConfigPath struct {
	Source ConfigSource
	Path   string
}

// UserConfigPath returns ~/.moodmap/am.toml under home.
func UserConfigPath(home string) string {
	return filepath.Join(home, ".moodmap", "am.toml")
}

// findProjectConfig searches for am.toml from the working directory upwards.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges config files in precedence order: system < user <
// project.
func mergeConfigFiles(v *viper.Viper) {
	for _, cp := range ConfigPaths() {
		if _, err := os.Stat(cp.Path); err != nil {
			continue
		}
		file := viper.New()
		file.SetConfigFile(cp.Path)
		file.SetConfigType("toml")
		if err := file.ReadInConfig(); err != nil {
			continue
		}
		// Merged into the config layer so environment variables still win.
		if err := v.MergeConfigMap(file.AllSettings()); err != nil {
			continue
		}
		for _, key := range file.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: cp.Source, Path: cp.Path}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return GetViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return GetViper().GetString(key)
}
