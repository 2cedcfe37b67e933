package somatic

import (
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

// Sensation is a kind of bodily feeling the user can report.
type Sensation string

const (
	Tension      Sensation = "tension"
	Tightness    Sensation = "tightness"
	Heaviness    Sensation = "heaviness"
	Warmth       Sensation = "warmth"
	Lightness    Sensation = "lightness"
	Tingling     Sensation = "tingling"
	Emptiness    Sensation = "emptiness"
	Restlessness Sensation = "restlessness"
	Numbness     Sensation = "numbness"
	Trembling    Sensation = "trembling"
	Ache         Sensation = "ache"
	Fluttering   Sensation = "fluttering"
	Nausea       Sensation = "nausea"
	Heat         Sensation = "heat"
)

// Sensations lists every known sensation.
var Sensations = []Sensation{
	Tension, Tightness, Heaviness, Warmth, Lightness, Tingling, Emptiness,
	Restlessness, Numbness, Trembling, Ache, Fluttering, Nausea, Heat,
}

// Valid reports whether s is a known sensation.
func (s Sensation) Valid() bool {
	for _, k := range Sensations {
		if s == k {
			return true
		}
	}
	return false
}

// Group is the body area a region belongs to.
type Group string

const (
	GroupHead  Group = "head"
	GroupTorso Group = "torso"
	GroupArms  Group = "arms"
	GroupLegs  Group = "legs"
)

func (g Group) valid() bool {
	switch g {
	case GroupHead, GroupTorso, GroupArms, GroupLegs:
		return true
	}
	return false
}

// Intensity levels a user can report.
const (
	Mild     = 1
	Moderate = 2
	Strong   = 3
)

// Signal links a sensation in a region to an emotion.
type Signal struct {
	EmotionID    string            `yaml:"emotionId" json:"emotionId" jsonschema:"required"`
	Sensation    Sensation         `yaml:"sensation" json:"sensation" jsonschema:"required"`
	MinIntensity int               `yaml:"minIntensity" json:"minIntensity" jsonschema:"minimum=1,maximum=3"`
	Weight       float64           `yaml:"weight" json:"weight" jsonschema:"exclusiveMinimum=0"`
	Source       string            `yaml:"source" json:"source"`
	Description  *catalog.Text     `yaml:"description,omitempty" json:"description,omitempty"`
	Needs        *catalog.TextList `yaml:"needs,omitempty" json:"needs,omitempty"`

	emotion *catalog.CanonicalEmotion
}

// Emotion returns the canonical record the signal points to.
func (s Signal) Emotion() *catalog.CanonicalEmotion { return s.emotion }

// Overlay is one record of somatic.yaml.
type Overlay struct {
	ID               string      `yaml:"id" json:"id" jsonschema:"required"`
	SVGRegionID      string      `yaml:"svgRegionId" json:"svgRegionId"`
	Group            Group       `yaml:"group" json:"group" jsonschema:"required,enum=head,enum=torso,enum=arms,enum=legs"`
	CommonSensations []Sensation `yaml:"commonSensations,omitempty" json:"commonSensations,omitempty"`
	Signals          []Signal    `yaml:"signals,omitempty" json:"signals,omitempty"`
}

func (o Overlay) OverlayID() string { return o.ID }

// Region is the somatic view of a canonical record: a body area with the
// signals it can emit.
type Region struct {
	*catalog.CanonicalEmotion
	SVGRegionID      string
	Group            Group
	CommonSensations []Sensation
	Signals          []Signal
}

// Selection is a region with the sensation and intensity the user reported.
// Entries of the model's table are unconfigured (no sensation, intensity 0).
type Selection struct {
	Region    *Region
	Sensation Sensation
	Intensity int
}

func (s Selection) EmotionID() string { return s.Region.ID }

func (s Selection) Pick() model.Pick {
	return model.Pick{ID: s.Region.ID, Sensation: string(s.Sensation), Intensity: s.Intensity}
}

// Configured reports whether a sensation and intensity have been set.
func (s Selection) Configured() bool {
	return s.Sensation != "" && s.Intensity >= Mild
}

// With returns a copy configured with sensation and intensity.
func (s Selection) With(sensation Sensation, intensity int) (Selection, error) {
	if !sensation.Valid() {
		return s, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidSelection, "unknown sensation %q", sensation),
			"run `moodmap catalog list --model somatic` to see regions and sensations")
	}
	if intensity < Mild || intensity > Strong {
		return s, errors.Wrapf(errors.ErrInvalidSelection, "intensity %d outside 1-3", intensity)
	}
	s.Sensation = sensation
	s.Intensity = intensity
	return s, nil
}

func buildRegion(cat *catalog.Catalog) func(*catalog.CanonicalEmotion, Overlay) (Selection, error) {
	return func(base *catalog.CanonicalEmotion, o Overlay) (Selection, error) {
		if !o.Group.valid() {
			return Selection{}, errors.Integrityf("unknown group %q", o.Group)
		}
		for _, s := range o.CommonSensations {
			if !s.Valid() {
				return Selection{}, errors.Integrityf("unknown common sensation %q", s)
			}
		}

		signals := make([]Signal, len(o.Signals))
		for i, sig := range o.Signals {
			e, ok := cat.Get(sig.EmotionID)
			if !ok {
				return Selection{}, errors.Integrityf("signal references unknown id %q", sig.EmotionID)
			}
			if !sig.Sensation.Valid() {
				return Selection{}, errors.Integrityf("signal for %q has unknown sensation %q", sig.EmotionID, sig.Sensation)
			}
			if sig.MinIntensity < Mild || sig.MinIntensity > Strong {
				return Selection{}, errors.Integrityf("signal for %q has minIntensity %d outside 1-3", sig.EmotionID, sig.MinIntensity)
			}
			if sig.Weight <= 0 {
				return Selection{}, errors.Integrityf("signal for %q has non-positive weight %v", sig.EmotionID, sig.Weight)
			}
			sig.emotion = e
			signals[i] = sig
		}

		return Selection{Region: &Region{
			CanonicalEmotion: base,
			SVGRegionID:      o.SVGRegionID,
			Group:            o.Group,
			CommonSensations: o.CommonSensations,
			Signals:          signals,
		}}, nil
	}
}
