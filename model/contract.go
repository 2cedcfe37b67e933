// Package model defines the contract every emotion model implements and the
// host-side helpers that drive it.
//
// A model owns a read-only table of emotions and three pure transition
// functions (select, deselect, clear) over an immutable State. The host keeps
// the selection list; a transition either leaves that list to the host's
// default rule or replaces it outright.
package model

import (
	"github.com/teranos/moodmap/catalog"
)

// Emotion is anything a model lets the user select.
type Emotion interface {
	EmotionID() string
	Pick() Pick
}

// Size is a presentation hint for how prominently a visible id is drawn.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Transition is the outcome of a select or deselect. When ReplaceSelections
// is false the host applies its default rule and Selections is ignored.
type Transition[E Emotion] struct {
	State             State
	Selections        []E
	ReplaceSelections bool
}

// Keep returns a transition that leaves the selection list to the host.
func Keep[E Emotion](s State) Transition[E] {
	return Transition[E]{State: s}
}

// Replace returns a transition that replaces the host's selection list.
func Replace[E Emotion](s State, selections []E) Transition[E] {
	return Transition[E]{State: s, Selections: selections, ReplaceSelections: true}
}

// Model is implemented by each emotion model.
//
// All methods are synchronous and pure: they never mutate their arguments
// and the same inputs always produce the same outputs.
type Model[E Emotion] interface {
	ID() string
	Emotions() *catalog.Table[E]
	InitialState() State
	OnSelect(e E, s State, current []E) Transition[E]
	OnDeselect(e E, s State) Transition[E]
	OnClear() State
	// Analyze returns an empty, non-nil slice for empty input.
	Analyze(selections []E) []AnalysisResult
	EmotionSize(id string, s State) Size
}

// ApplySelect is the host's default select rule: append e unless an entry
// with the same id is already present.
func ApplySelect[E Emotion](current []E, e E) []E {
	for _, c := range current {
		if c.EmotionID() == e.EmotionID() {
			return current
		}
	}
	out := make([]E, len(current), len(current)+1)
	copy(out, current)
	return append(out, e)
}

// ApplyDeselect is the host's default deselect rule: drop every entry with
// e's id.
func ApplyDeselect[E Emotion](current []E, e E) []E {
	out := make([]E, 0, len(current))
	for _, c := range current {
		if c.EmotionID() != e.EmotionID() {
			out = append(out, c)
		}
	}
	return out
}

// Settle applies t to current: the replacement list when t asks for one,
// otherwise fallback(current).
func Settle[E Emotion](t Transition[E], current []E, fallback func([]E) []E) []E {
	if t.ReplaceSelections {
		out := make([]E, len(t.Selections))
		copy(out, t.Selections)
		return out
	}
	return fallback(current)
}
