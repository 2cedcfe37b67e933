package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/logger"
)

// createBackup rotates .back1..3 before a config file is rewritten.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// parseValue reads raw as a TOML value so numbers, booleans and arrays keep
// their type. Anything else is kept as a string.
func parseValue(raw string) interface{} {
	var doc map[string]interface{}
	if err := toml.Unmarshal([]byte("v = "+raw), &doc); err == nil {
		return doc["v"]
	}
	return raw
}

// SetInFile sets a dotted key in the TOML file at configPath, creating the
// file and its directory when missing. The previous file is backed up and the
// result must still validate.
func SetInFile(configPath, key, raw string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return errors.Newf("invalid config key %q", key)
	}

	config := make(map[string]interface{})
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return errors.Wrapf(err, "failed to parse %s", configPath)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to read %s", configPath)
	}

	parts := strings.Split(key, ".")
	section := config
	for _, p := range parts[:len(parts)-1] {
		next, ok := section[p].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			section[p] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = parseValue(raw)

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Reject the write if the file would not validate on its own.
	tmp, err := os.CreateTemp("", "am-*.toml")
	if err != nil {
		return errors.Wrap(err, "failed to stage config")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to stage config")
	}
	tmp.Close()
	staged, err := LoadFromFile(tmp.Name())
	if err != nil {
		return err
	}
	if err := staged.Validate(); err != nil {
		return errors.WithHint(errors.Wrapf(err, "refusing to set %s", key), "run `moodmap am show` to see current values")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}
	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// Set sets a dotted key in ~/.moodmap/am.toml and clears the cached config.
func Set(key, raw string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	path := UserConfigPath(home)
	if err := SetInFile(path, key, raw); err != nil {
		return "", err
	}
	Reset()
	return path, nil
}
