// Package plutchik implements the combination-graph model: the user starts
// from eight primary emotions, each selection reveals related emotions, and
// analysis names the dyads formed by pairs of selected primaries.
package plutchik

import (
	"io/fs"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

// ModelID is the registry id of this model.
const ModelID = "plutchik"

// Kind tags an emotion's role in the graph. It is decided at load.
type Kind int

const (
	Primary Kind = iota
	Variant
	Dyad
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Variant:
		return "variant"
	case Dyad:
		return "dyad"
	}
	return "unknown"
}

// Categories as they appear in the overlay.
const (
	CategoryPrimary       = "primary"
	CategoryMild          = "mild"
	CategoryIntense       = "intense"
	CategoryPrimaryDyad   = "primary_dyad"
	CategorySecondaryDyad = "secondary_dyad"
	CategoryTertiaryDyad  = "tertiary_dyad"
)

func kindOf(category string) (Kind, bool) {
	switch category {
	case CategoryPrimary:
		return Primary, true
	case CategoryMild, CategoryIntense:
		return Variant, true
	case CategoryPrimaryDyad, CategorySecondaryDyad, CategoryTertiaryDyad:
		return Dyad, true
	}
	return 0, false
}

// Overlay is one record of plutchik.yaml.
type Overlay struct {
	ID         string   `yaml:"id" json:"id" jsonschema:"required"`
	Category   string   `yaml:"category" json:"category" jsonschema:"required,enum=primary,enum=mild,enum=intense,enum=primary_dyad,enum=secondary_dyad,enum=tertiary_dyad"`
	Intensity  float64  `yaml:"intensity" json:"intensity" jsonschema:"minimum=0,maximum=1"`
	Opposite   string   `yaml:"opposite,omitempty" json:"opposite,omitempty"`
	Spawns     []string `yaml:"spawns,omitempty" json:"spawns,omitempty"`
	Components []string `yaml:"components,omitempty" json:"components,omitempty" jsonschema:"minItems=2,maxItems=2"`
}

func (o Overlay) OverlayID() string { return o.ID }

// Emotion is the Plutchik view of a canonical emotion.
type Emotion struct {
	*catalog.CanonicalEmotion
	Category   string
	Intensity  float64
	Opposite   string
	Spawns     []string
	Components *[2]string // set for dyads only
	Kind       Kind
}

func (e *Emotion) EmotionID() string { return e.ID }

func (e *Emotion) Pick() model.Pick { return model.Pick{ID: e.ID} }

// Model is the Plutchik combination graph.
type Model struct {
	table     *catalog.Table[*Emotion]
	primaries []string
	dyads     []*Emotion
}

var _ model.Model[*Emotion] = (*Model)(nil)

// Load reads plutchik.yaml from fsys and resolves it against cat.
func Load(cat *catalog.Catalog, fsys fs.FS) (*Model, error) {
	overlays, err := catalog.ReadOverlay[Overlay](fsys, catalog.PlutchikFile)
	if err != nil {
		return nil, err
	}
	return New(cat, overlays)
}

// New resolves overlays against cat and validates the graph.
func New(cat *catalog.Catalog, overlays []Overlay) (*Model, error) {
	table, err := catalog.Resolve(cat, overlays, build)
	if err != nil {
		return nil, errors.Wrap(err, "plutchik")
	}

	m := &Model{table: table}
	for _, e := range table.Values() {
		if err := validateRefs(table, e); err != nil {
			return nil, errors.Wrap(err, "plutchik")
		}
		switch e.Kind {
		case Primary:
			m.primaries = append(m.primaries, e.ID)
		case Dyad:
			m.dyads = append(m.dyads, e)
		}
	}
	if len(m.primaries) == 0 {
		return nil, errors.Integrityf("plutchik: no primary emotions")
	}
	return m, nil
}

func build(base *catalog.CanonicalEmotion, o Overlay) (*Emotion, error) {
	kind, ok := kindOf(o.Category)
	if !ok {
		return nil, errors.Integrityf("unknown category %q", o.Category)
	}
	if o.Intensity < 0 || o.Intensity > 1 {
		return nil, errors.Integrityf("intensity %v outside [0,1]", o.Intensity)
	}

	e := &Emotion{
		CanonicalEmotion: base,
		Category:         o.Category,
		Intensity:        o.Intensity,
		Opposite:         o.Opposite,
		Spawns:           o.Spawns,
		Kind:             kind,
	}
	switch {
	case kind == Dyad && len(o.Components) != 2:
		return nil, errors.Integrityf("dyad needs exactly 2 components, has %d", len(o.Components))
	case kind == Dyad && o.Components[0] == o.Components[1]:
		return nil, errors.Integrityf("dyad components must differ, both are %q", o.Components[0])
	case kind != Dyad && len(o.Components) > 0:
		return nil, errors.Integrityf("%s emotion cannot have components", o.Category)
	case kind == Dyad:
		e.Components = &[2]string{o.Components[0], o.Components[1]}
	}
	return e, nil
}

func validateRefs(table *catalog.Table[*Emotion], e *Emotion) error {
	for _, id := range e.Spawns {
		if !table.Has(id) {
			return errors.Integrityf("%q spawns unknown id %q", e.ID, id)
		}
	}
	if e.Components != nil {
		for _, id := range e.Components {
			if !table.Has(id) {
				return errors.Integrityf("dyad %q has unknown component %q", e.ID, id)
			}
		}
	}
	if e.Opposite != "" && !table.Has(e.Opposite) {
		return errors.Integrityf("%q has unknown opposite %q", e.ID, e.Opposite)
	}
	return nil
}

func (m *Model) ID() string { return ModelID }

func (m *Model) Emotions() *catalog.Table[*Emotion] { return m.table }

// Primaries returns the primary ids in table order.
func (m *Model) Primaries() []string {
	out := make([]string, len(m.primaries))
	copy(out, m.primaries)
	return out
}

// InitialState shows the primaries at generation 0.
func (m *Model) InitialState() model.State {
	return model.NewState(0, m.primaries...)
}

// OnSelect advances the generation, hides e and reveals its spawns at the
// new generation. Spawns that are already visible or already selected are
// left alone.
func (m *Model) OnSelect(e *Emotion, s model.State, current []*Emotion) model.Transition[*Emotion] {
	gen := s.Generation() + 1
	next := s.WithGeneration(gen).Without(e.ID)

	selected := make(map[string]struct{}, len(current))
	for _, c := range current {
		selected[c.ID] = struct{}{}
	}
	for _, id := range e.Spawns {
		if next.IsVisible(id) {
			continue
		}
		if _, ok := selected[id]; ok {
			continue
		}
		next = next.With(id, gen)
	}
	return model.Keep[*Emotion](next)
}

// OnDeselect returns a dyad's components, or the emotion itself, to the
// visible set two generations back. Ids already visible keep their stamp.
func (m *Model) OnDeselect(e *Emotion, s model.State) model.Transition[*Emotion] {
	back := s.Generation() - 2
	if back < 0 {
		back = 0
	}

	ids := []string{e.ID}
	if e.Components != nil {
		ids = e.Components[:]
	}
	next := s
	for _, id := range ids {
		if !next.IsVisible(id) {
			next = next.With(id, back)
		}
	}
	return model.Keep[*Emotion](next)
}

func (m *Model) OnClear() model.State { return m.InitialState() }

// Analyze names every dyad whose two components are both selected, in table
// order, followed by the selections no dyad consumed, in selection order.
func (m *Model) Analyze(selections []*Emotion) []model.AnalysisResult {
	switch len(selections) {
	case 0:
		return []model.AnalysisResult{}
	case 1:
		return []model.AnalysisResult{model.FromCanonical(selections[0].CanonicalEmotion)}
	}

	selected := make(map[string]struct{}, len(selections))
	for _, s := range selections {
		selected[s.ID] = struct{}{}
	}

	results := make([]model.AnalysisResult, 0, len(selections))
	consumed := make(map[string]struct{})
	emitted := make(map[string]struct{})

	for _, d := range m.dyads {
		a, b := d.Components[0], d.Components[1]
		_, hasA := selected[a]
		_, hasB := selected[b]
		if !hasA || !hasB {
			continue
		}
		r := model.FromCanonical(d.CanonicalEmotion)
		r.ComponentLabels = []catalog.Text{m.label(a), m.label(b)}
		results = append(results, r)
		emitted[d.ID] = struct{}{}
		consumed[a] = struct{}{}
		consumed[b] = struct{}{}
	}

	for _, s := range selections {
		if _, ok := consumed[s.ID]; ok {
			continue
		}
		if _, ok := emitted[s.ID]; ok {
			continue
		}
		results = append(results, model.FromCanonical(s.CanonicalEmotion))
		emitted[s.ID] = struct{}{}
	}
	return results
}

func (m *Model) label(id string) catalog.Text {
	e, _ := m.table.Get(id)
	return e.Label
}

// EmotionSize draws emotions revealed in the current generation large.
func (m *Model) EmotionSize(id string, s model.State) model.Size {
	if g, ok := s.Visible(id); ok && g == s.Generation() {
		return model.SizeLarge
	}
	return model.SizeSmall
}

// Engine returns m as a type-erased model.Engine.
func (m *Model) Engine() model.Engine {
	return model.Erase[*Emotion](m, nil)
}
