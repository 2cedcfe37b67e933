// Package sym defines the canonical glyphs for moodmap's models and
// subsystems. They are stable across the CLI, logs and documentation.
package sym

// Model glyphs, one per emotion model.
const (
	Plutchik    = "✿" // primary/dyad combination graph
	Wheel       = "◎" // hierarchical drill-down wheel
	Dimensional = "⊹" // valence/arousal field
	Somatic     = "❀" // body-sensation aggregator
)

// Subsystem glyphs.
const (
	Catalog   = "≡" // canonical emotion dictionary and data feed
	Crisis    = "⚑" // crisis tier classification
	Narrative = "✎" // narrative synthesis
	Registry  = "⨳" // model registry and lazy loading
	DB        = "⊔" // journal storage layer
)

// entry binds a model or subsystem id to its glyph and description.
type entry struct {
	id          string
	glyph       string
	label       string
	description string
}

// registry is the canonical mapping between ids and glyph metadata.
// Model entries come first in palette order.
var registry = []entry{
	{"plutchik", Plutchik, "Plutchik", "Combine primary emotions into dyads"},
	{"wheel", Wheel, "Wheel", "Drill down from broad to specific feelings"},
	{"dimensional", Dimensional, "Dimensional", "Locate a feeling by pleasantness and energy"},
	{"somatic", Somatic, "Somatic", "Start from sensations in the body"},
	{"catalog", Catalog, "Catalog", "Canonical emotion dictionary"},
	{"crisis", Crisis, "Crisis", "Risk tier classification"},
	{"narrative", Narrative, "Narrative", "Supportive narrative synthesis"},
	{"registry", Registry, "Registry", "Model registry and lazy loading"},
	{"db", DB, "Journal", "Session journal storage"},
}

var (
	idToGlyph map[string]string
	glyphToID map[string]string
)

func init() {
	idToGlyph = make(map[string]string, len(registry))
	glyphToID = make(map[string]string, len(registry))
	for _, e := range registry {
		idToGlyph[e.id] = e.glyph
		glyphToID[e.glyph] = e.id
	}
}

// Glyph returns the glyph for a model or subsystem id, or "" if unknown.
func Glyph(id string) string {
	return idToGlyph[id]
}

// FromGlyph returns the id for a glyph, or "" if unknown.
func FromGlyph(glyph string) string {
	return glyphToID[glyph]
}

// Label returns the human-readable label for an id, or the id itself.
func Label(id string) string {
	for _, e := range registry {
		if e.id == id {
			return e.label
		}
	}
	return id
}

// Describe returns the one-line description for an id.
func Describe(id string) string {
	for _, e := range registry {
		if e.id == id {
			return e.description
		}
	}
	return ""
}

// PaletteOrder is the canonical ordering of model glyphs for selection bars
// and help output.
var PaletteOrder = []string{Plutchik, Wheel, Dimensional, Somatic}
