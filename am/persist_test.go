package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(6), parseValue("6"))
	assert.Equal(t, 0.25, parseValue("0.25"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "it", parseValue("it"))
	assert.Equal(t, "quoted", parseValue(`"quoted"`))
	assert.Equal(t, []interface{}{"somatic", "wheel"}, parseValue(`["somatic", "wheel"]`))
}

func TestSetInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "am.toml")

	require.NoError(t, SetInFile(path, "catalog.language", "it"))
	require.NoError(t, SetInFile(path, "somatic.max_results", "6"))
	require.NoError(t, SetInFile(path, "registry.lazy", `["wheel"]`))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "it", cfg.Catalog.Language)
	assert.Equal(t, 6, cfg.Somatic.MaxResults)
	assert.Equal(t, []string{"wheel"}, cfg.Registry.Lazy)

	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err, "previous file is backed up")
}

func TestSetInFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, SetInFile(path, "catalog.language", "en"))

	err := SetInFile(path, "catalog.language", "fr")
	require.Error(t, err)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Catalog.Language, "file unchanged")

	assert.Error(t, SetInFile(path, "", "x"))
	assert.Error(t, SetInFile(path, "catalog.", "x"))
}

func TestSet(t *testing.T) {
	home, _ := isolate(t)

	path, err := Set("crisis.escalation_window_days", "14")
	require.NoError(t, err)
	assert.Equal(t, UserConfigPath(home), path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Crisis.EscalationWindowDays)
}
