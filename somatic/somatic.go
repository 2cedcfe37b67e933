// Package somatic implements the body-sensation model: the user marks
// regions of the body with a sensation and an intensity, and the engine ranks
// the emotions those sensations most commonly accompany.
package somatic

import (
	"io/fs"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

// ModelID is the registry id of this model.
const ModelID = "somatic"

// LargeRegionSignals is the signal count from which a region is drawn large.
const LargeRegionSignals = 4

// Model is the body-sensation aggregator.
type Model struct {
	table  *catalog.Table[Selection]
	params Params
}

var _ model.Model[Selection] = (*Model)(nil)

// Load reads somatic.yaml from fsys and resolves it against cat.
func Load(cat *catalog.Catalog, fsys fs.FS, p Params) (*Model, error) {
	overlays, err := catalog.ReadOverlay[Overlay](fsys, catalog.SomaticFile)
	if err != nil {
		return nil, err
	}
	return New(cat, overlays, p)
}

// New resolves overlays against cat. Every signal's emotion id must be
// canonical.
func New(cat *catalog.Catalog, overlays []Overlay, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	table, err := catalog.Resolve(cat, overlays, buildRegion(cat))
	if err != nil {
		return nil, errors.Wrap(err, "somatic")
	}
	return &Model{table: table, params: p}, nil
}

func (m *Model) ID() string { return ModelID }

// Emotions returns the unconfigured selection for every region.
func (m *Model) Emotions() *catalog.Table[Selection] { return m.table }

// Params returns the scoring parameters.
func (m *Model) Params() Params { return m.params }

// Region returns the region with id.
func (m *Model) Region(id string) (*Region, bool) {
	s, ok := m.table.Get(id)
	if !ok {
		return nil, false
	}
	return s.Region, true
}

// InitialState shows every region at generation 0.
func (m *Model) InitialState() model.State {
	return model.NewState(0, m.table.IDs()...)
}

// OnSelect records sel, replacing an earlier selection of the same region so
// the user can change the sensation or intensity in place.
func (m *Model) OnSelect(sel Selection, s model.State, current []Selection) model.Transition[Selection] {
	out := make([]Selection, 0, len(current)+1)
	replaced := false
	for _, c := range current {
		if c.EmotionID() == sel.EmotionID() {
			out = append(out, sel)
			replaced = true
			continue
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, sel)
	}
	return model.Replace(s, out)
}

// OnDeselect leaves visibility alone; the host drops the region.
func (m *Model) OnDeselect(_ Selection, s model.State) model.Transition[Selection] {
	return model.Keep[Selection](s)
}

func (m *Model) OnClear() model.State { return m.InitialState() }

// Analyze ranks the emotions behind selections. Component labels list the
// regions that contributed.
func (m *Model) Analyze(selections []Selection) []model.AnalysisResult {
	ranked := Rank(selections, m.params)
	results := make([]model.AnalysisResult, 0, len(ranked))
	for _, sc := range ranked {
		r := model.FromCanonical(sc.Emotion)
		if sc.Description != nil {
			r.Description = *sc.Description
		}
		if sc.Needs != nil {
			r.Needs = *sc.Needs
		}
		r.MatchStrength = sc.Strength
		r.ComponentLabels = make([]catalog.Text, len(sc.Regions))
		for i, reg := range sc.Regions {
			r.ComponentLabels[i] = reg.Label
		}
		results = append(results, r)
	}
	return results
}

// EmotionSize draws signal-rich regions large.
func (m *Model) EmotionSize(id string, _ model.State) model.Size {
	if r, ok := m.Region(id); ok && len(r.Signals) >= LargeRegionSignals {
		return model.SizeLarge
	}
	return model.SizeMedium
}

// Resolve turns a pick into a configured selection. A pick without sensation
// and intensity resolves to the unconfigured region.
func (m *Model) Resolve(p model.Pick) (Selection, error) {
	base, ok := m.table.Get(p.ID)
	if !ok {
		return Selection{}, errors.UnknownEmotionf("%q is not a body region", p.ID)
	}
	if p.Sensation == "" && p.Intensity == 0 {
		return base, nil
	}
	return base.With(Sensation(p.Sensation), p.Intensity)
}

// Engine returns m as a type-erased model.Engine.
func (m *Model) Engine() model.Engine {
	return model.Erase[Selection](m, m.Resolve)
}
