package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/dimensional"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/journal"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/session"
	"github.com/teranos/moodmap/wheel"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func defaultConfig(t *testing.T) *am.Config {
	t.Helper()
	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "journal.db")
	return cfg
}

func newTestApp(t *testing.T, cfg *am.Config, opts appOptions) *app {
	t.Helper()
	a, err := newAppWithConfig(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func wheelReport(t *testing.T, a *app, ids ...string) session.Report {
	t.Helper()
	s, err := a.open(context.Background(), wheel.ModelID)
	require.NoError(t, err)
	for _, id := range ids {
		require.NoError(t, s.Select(model.Pick{ID: id}))
	}
	r, err := a.manager.Report(context.Background(), s, catalog.EN)
	require.NoError(t, err)
	return r
}

func TestWriteReportFormats(t *testing.T) {
	a := newTestApp(t, defaultConfig(t), appOptions{})
	r := wheelReport(t, a, "sad", "lonely", "isolated")

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, r, catalog.EN, FormatJSON))
	var decoded renderedReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"isolated"}, decoded.Picks)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, []string{"Sad", "Lonely", "Isolated"}, decoded.Results[0].HierarchyPath)
	assert.Equal(t, crisis.Tier1, decoded.EffectiveTier)

	buf.Reset()
	require.NoError(t, writeReport(&buf, r, catalog.IT, FormatYAML))
	var asMap map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &asMap))
	assert.Equal(t, "it", asMap["language"])

	buf.Reset()
	require.NoError(t, writeReport(&buf, r, catalog.EN, FormatText))
	out := buf.String()
	assert.Contains(t, out, "Isolated")
	assert.Contains(t, out, "tier1")
	assert.Contains(t, out, r.Narrative)

	assert.Error(t, writeReport(&buf, r, catalog.EN, "xml"))
	assert.Error(t, checkFormat("xml"))
}

func TestWriteReportEmpty(t *testing.T) {
	a := newTestApp(t, defaultConfig(t), appOptions{})
	r := wheelReport(t, a)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, r, catalog.EN, FormatText))
	assert.Contains(t, buf.String(), "Nothing selected yet.")
}

func TestPrintTierBadge(t *testing.T) {
	var buf bytes.Buffer
	printTierBadge(&buf, crisis.None, crisis.None)
	assert.Empty(t, buf.String())

	printTierBadge(&buf, crisis.Tier3, crisis.Tier2)
	assert.Contains(t, buf.String(), "tier3 (raised from tier2 by recent sessions)")
	assert.Contains(t, buf.String(), "reaching out")
}

func TestAnalyzeRecordsAndEscalates(t *testing.T) {
	cfg := defaultConfig(t)
	a := newTestApp(t, cfg, appOptions{journal: true})

	for i := 0; i < 3; i++ {
		r := wheelReport(t, a, "sad", "despair", "hopeless", "fearful", "insecure", "worthless")
		require.True(t, r.Recorded)
	}
	r := wheelReport(t, a, "sad", "despair", "hopeless")
	assert.Equal(t, crisis.Tier1, r.Tier)
	assert.Equal(t, crisis.Tier2, r.EffectiveTier, "three tier3 sessions this week raise the tier")

	entries, err := a.journal.Since(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, entries, FormatText))
	assert.Contains(t, buf.String(), "tier2 (from tier1)")
	assert.Contains(t, buf.String(), "hopeless, worthless")
}

func TestWriteHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, nil, FormatJSON))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, writeHistory(&buf, []journal.Entry{}, FormatText))
	assert.Contains(t, buf.String(), "No sessions recorded")
}

func TestParsePicks(t *testing.T) {
	picks, err := parsePicks([]string{"joy", "chest:tightness:3"})
	require.NoError(t, err)
	assert.Equal(t, []model.Pick{{ID: "joy"}, {ID: "chest", Sensation: "tightness", Intensity: 3}}, picks)

	_, err = parsePicks([]string{"chest:tightness"})
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLanguage(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Catalog.Language = "it"
	a := newTestApp(t, cfg, appOptions{})

	lang, err := a.language("")
	require.NoError(t, err)
	assert.Equal(t, catalog.IT, lang)

	lang, err = a.language("en")
	require.NoError(t, err)
	assert.Equal(t, catalog.EN, lang)

	_, err = a.language("fr")
	assert.Error(t, err)
}

func TestNeighbors(t *testing.T) {
	a := newTestApp(t, defaultConfig(t), appOptions{})
	s, err := a.open(context.Background(), dimensional.ModelID)
	require.NoError(t, err)
	m := s.Engine().Unwrap().(*dimensional.Model)

	rows := neighbors(m, 0.8, 0.8, 3, catalog.EN)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Distance, rows[i].Distance)
	}
	assert.Equal(t, dimensional.ActivatedPleasant, rows[0].Quadrant)

	var buf bytes.Buffer
	require.NoError(t, writeNeighbors(&buf, rows, FormatJSON))
	var decoded []neighbor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)

	buf.Reset()
	require.NoError(t, writeNeighbors(&buf, rows, FormatText))
	assert.Contains(t, buf.String(), rows[0].Label)
}

func TestLoadTimeout(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Registry.LoadTimeoutSeconds = 0
	a := newTestApp(t, cfg, appOptions{})

	ctx, cancel := a.loadContext(context.Background())
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline, "zero timeout waits indefinitely")

	a.cfg.Registry.LoadTimeoutSeconds = 5
	ctx, cancel = a.loadContext(context.Background())
	defer cancel()
	_, hasDeadline = ctx.Deadline()
	assert.True(t, hasDeadline)
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScript(t *testing.T) {
	script, err := LoadScript(writeScript(t, `
model = "wheel"
lang = "it"

[[step]]
action = "select"
pick = "sad"

[[step]]
action = "clear"
`))
	require.NoError(t, err)
	assert.Equal(t, "wheel", script.Model)
	assert.Equal(t, "it", script.Lang)
	assert.Equal(t, []Step{{Action: ActionSelect, Pick: "sad"}, {Action: ActionClear}}, script.Steps)

	tests := []struct {
		name, content, want string
	}{
		{"unknown key", "model = \"wheel\"\nmood = \"great\"\n", "unknown keys: mood"},
		{"no model", "[[step]]\naction = \"clear\"\n", "no model"},
		{"bad action", "model = \"wheel\"\n[[step]]\naction = \"tap\"\npick = \"sad\"\n", "unknown action"},
		{"bad pick", "model = \"somatic\"\n[[step]]\naction = \"select\"\npick = \"chest:ache\"\n", "step 1"},
		{"malformed", "model = ", "failed to decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript(writeScript(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReplay(t *testing.T) {
	a := newTestApp(t, defaultConfig(t), appOptions{})
	s, err := a.open(context.Background(), wheel.ModelID)
	require.NoError(t, err)

	steps := []Step{
		{Action: ActionSelect, Pick: "sad"},
		{Action: ActionSelect, Pick: "lonely"},
		{Action: ActionSelect, Pick: "isolated"},
		{Action: ActionSelect, Pick: "happy"},
		{Action: ActionSelect, Pick: "content"},
		{Action: ActionSelect, Pick: "joy"},
		{Action: ActionDeselect, Pick: "isolated"},
	}
	var trace bytes.Buffer
	require.NoError(t, replay(s, steps, &trace))
	assert.Equal(t, []string{"joy"}, model.PickIDs(s.Picks()))
	assert.Contains(t, trace.String(), "picks=[isolated]")

	var out bytes.Buffer
	require.NoError(t, report(context.Background(), a.manager, s, catalog.EN, FormatJSON, &out))
	var decoded renderedReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []string{"joy"}, decoded.Picks)

	err = replay(s, []Step{{Action: ActionSelect, Pick: "ghost"}}, &trace)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}

func TestSchema(t *testing.T) {
	for _, kind := range SchemaKinds {
		t.Run(kind, func(t *testing.T) {
			s, err := Schema(kind)
			require.NoError(t, err)
			data, err := json.Marshal(s)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.Equal(t, "moodmap "+kind, doc["title"])
			assert.Contains(t, doc, "properties")
		})
	}

	_, err := Schema("tarot")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func copyFeed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	feed := catalog.Embedded()
	entries, err := fs.ReadDir(feed, ".")
	require.NoError(t, err)
	for _, e := range entries {
		data, err := fs.ReadFile(feed, e.Name())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0644))
	}
	return dir
}

func TestValidateModels(t *testing.T) {
	a := newTestApp(t, defaultConfig(t), appOptions{})
	var buf bytes.Buffer
	assert.Equal(t, 0, validateModels(context.Background(), a, &buf))
	assert.Contains(t, buf.String(), "somatic:")

	buf.Reset()
	require.NoError(t, modelTable(&buf, a.registry).Render())
	assert.Contains(t, buf.String(), "ready")
}

func TestValidateModelsReportsBrokenOverlay(t *testing.T) {
	dir := copyFeed(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.WheelFile), []byte(`
model: wheel
entries:
  - {id: happy, level: 0, children: [ghost]}
`), 0644))

	cfg := defaultConfig(t)
	cfg.Catalog.Path = dir
	a := newTestApp(t, cfg, appOptions{})

	var buf bytes.Buffer
	assert.Equal(t, 1, validateModels(context.Background(), a, &buf))
	assert.Contains(t, buf.String(), "wheel")
}

func TestLoadCatalogFromMissingPath(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing")
	_, err := loadCatalog(cfg)
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestWriteSettings(t *testing.T) {
	settings := map[string]any{
		"catalog": map[string]any{"language": "en"},
		"somatic": map[string]any{"max_results": 4},
	}
	for _, format := range []string{"toml", "json", "yaml"} {
		var buf bytes.Buffer
		require.NoError(t, writeSettings(&buf, settings, format), format)
		assert.Contains(t, buf.String(), "max_results", format)
	}
	assert.Error(t, writeSettings(&bytes.Buffer{}, settings, "ini"))
}
