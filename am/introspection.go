package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/moodmap/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/moodmap/am.toml
	SourceUser        ConfigSource = "user"        // ~/.moodmap/am.toml
	SourceProject     ConfigSource = "project"     // am.toml found from the working directory up
	SourceEnvironment ConfigSource = "environment" // MOODMAP_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo is one effective setting and its source.
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// Introspect returns every effective setting with the source that set it,
// sorted by key.
func Introspect() ([]SettingInfo, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	v := GetViper()
	mu.Lock()
	sources := make(map[string]SourceInfo, len(ConfigSources))
	for k, s := range ConfigSources {
		sources[k] = s
	}
	mu.Unlock()

	var out []SettingInfo
	flattenSettings(v.AllSettings(), "", sources, &out)
	return out, nil
}

// Lookup returns the effective setting for key.
func Lookup(key string) (SettingInfo, error) {
	settings, err := Introspect()
	if err != nil {
		return SettingInfo{}, err
	}
	key = strings.ToLower(key)
	for _, s := range settings {
		if s.Key == key {
			return s, nil
		}
	}
	return SettingInfo{}, errors.WithHint(
		errors.Wrapf(errors.ErrNotFound, "config key %q", key),
		"run `moodmap am show` to list every key",
	)
}

func flattenSettings(settings map[string]interface{}, prefix string, sources map[string]SourceInfo, out *[]SettingInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettings(nested, fullKey, sources, out)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[fullKey]; ok {
			info = si
		}
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}
