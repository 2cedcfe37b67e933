// Package dimensional implements the valence/arousal model: emotions are
// fixed reference points on a plane and the user locates a feeling by
// pleasantness and energy.
package dimensional

import (
	"io/fs"
	"math"
	"sort"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/internal/util"
	"github.com/teranos/moodmap/model"
)

// ModelID is the registry id of this model.
const ModelID = "dimensional"

// Quadrant names a region of the plane.
type Quadrant string

const (
	ActivatedPleasant   Quadrant = "activated-pleasant"
	CalmPleasant        Quadrant = "calm-pleasant"
	ActivatedUnpleasant Quadrant = "activated-unpleasant"
	CalmUnpleasant      Quadrant = "calm-unpleasant"
)

// QuadrantOf classifies a coordinate. Zero counts as pleasant and activated.
func QuadrantOf(valence, arousal float64) Quadrant {
	switch {
	case valence >= 0 && arousal >= 0:
		return ActivatedPleasant
	case valence >= 0:
		return CalmPleasant
	case arousal >= 0:
		return ActivatedUnpleasant
	default:
		return CalmUnpleasant
	}
}

// Overlay is one record of dimensional.yaml.
type Overlay struct {
	ID      string  `yaml:"id" json:"id" jsonschema:"required"`
	Valence float64 `yaml:"valence" json:"valence" jsonschema:"minimum=-1,maximum=1"`
	Arousal float64 `yaml:"arousal" json:"arousal" jsonschema:"minimum=-1,maximum=1"`
}

func (o Overlay) OverlayID() string { return o.ID }

// Point is the dimensional view of a canonical emotion.
type Point struct {
	*catalog.CanonicalEmotion
	Valence  float64
	Arousal  float64
	Quadrant Quadrant
}

func (p *Point) EmotionID() string { return p.ID }

func (p *Point) Pick() model.Pick { return model.Pick{ID: p.ID} }

// Distance is the Euclidean distance from p to (valence, arousal).
func (p *Point) Distance(valence, arousal float64) float64 {
	return math.Hypot(p.Valence-valence, p.Arousal-arousal)
}

// Model is the valence/arousal field.
type Model struct {
	table *catalog.Table[*Point]
}

var _ model.Model[*Point] = (*Model)(nil)

// Load reads dimensional.yaml from fsys and resolves it against cat.
func Load(cat *catalog.Catalog, fsys fs.FS) (*Model, error) {
	overlays, err := catalog.ReadOverlay[Overlay](fsys, catalog.DimensionalFile)
	if err != nil {
		return nil, err
	}
	return New(cat, overlays)
}

// New resolves overlays against cat.
func New(cat *catalog.Catalog, overlays []Overlay) (*Model, error) {
	table, err := catalog.Resolve(cat, overlays, build)
	if err != nil {
		return nil, errors.Wrap(err, "dimensional")
	}
	return &Model{table: table}, nil
}

func build(base *catalog.CanonicalEmotion, o Overlay) (*Point, error) {
	if !util.InSignedUnit(o.Valence) || !util.InSignedUnit(o.Arousal) {
		return nil, errors.Integrityf("coordinates (%v, %v) outside [-1,1]", o.Valence, o.Arousal)
	}
	return &Point{
		CanonicalEmotion: base,
		Valence:          o.Valence,
		Arousal:          o.Arousal,
		Quadrant:         QuadrantOf(o.Valence, o.Arousal),
	}, nil
}

// FindNearest returns up to k points ordered by distance to (valence,
// arousal). Equal distances keep their order in points. k <= 0 returns an
// empty slice; k larger than len(points) returns all of them.
func FindNearest(valence, arousal float64, points []*Point, k int) []*Point {
	if k <= 0 {
		return []*Point{}
	}
	sorted := make([]*Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance(valence, arousal) < sorted[j].Distance(valence, arousal)
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// Nearest runs FindNearest over the model's own points.
func (m *Model) Nearest(valence, arousal float64, k int) []*Point {
	return FindNearest(valence, arousal, m.table.Values(), k)
}

func (m *Model) ID() string { return ModelID }

func (m *Model) Emotions() *catalog.Table[*Point] { return m.table }

// InitialState shows every point at generation 0.
func (m *Model) InitialState() model.State {
	return model.NewState(0, m.table.IDs()...)
}

// OnSelect keeps every point visible; the field never changes.
func (m *Model) OnSelect(*Point, model.State, []*Point) model.Transition[*Point] {
	return model.Keep[*Point](m.InitialState())
}

func (m *Model) OnDeselect(*Point, model.State) model.Transition[*Point] {
	return model.Keep[*Point](m.InitialState())
}

func (m *Model) OnClear() model.State { return m.InitialState() }

// Analyze passes each selection through with its coordinates.
func (m *Model) Analyze(selections []*Point) []model.AnalysisResult {
	results := make([]model.AnalysisResult, 0, len(selections))
	for _, p := range selections {
		r := model.FromCanonical(p.CanonicalEmotion)
		r.Valence = util.Ptr(p.Valence)
		r.Arousal = util.Ptr(p.Arousal)
		results = append(results, r)
	}
	return results
}

func (m *Model) EmotionSize(string, model.State) model.Size { return model.SizeMedium }

// Engine returns m as a type-erased model.Engine.
func (m *Model) Engine() model.Engine {
	return model.Erase[*Point](m, nil)
}
