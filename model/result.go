package model

import (
	"github.com/teranos/moodmap/catalog"
)

// AnalysisResult is one named emotion produced by Analyze. Text fields stay
// bilingual until Render; fields a model has no data for are left empty.
type AnalysisResult struct {
	ID              string           `json:"id" jsonschema:"required"`
	Label           catalog.Text     `json:"label" jsonschema:"required"`
	Color           string           `json:"color"`
	Description     catalog.Text     `json:"description,omitempty"`
	Needs           catalog.TextList `json:"needs,omitempty"`
	ComponentLabels []catalog.Text   `json:"componentLabels,omitempty"`
	HierarchyPath   []catalog.Text   `json:"hierarchyPath,omitempty"`
	MatchStrength   string           `json:"matchStrength,omitempty" jsonschema:"enum=,enum=clear signal,enum=possible connection,enum=worth exploring"`
	Valence         *float64         `json:"valence,omitempty" jsonschema:"minimum=-1,maximum=1"`
	Arousal         *float64         `json:"arousal,omitempty" jsonschema:"minimum=-1,maximum=1"`
}

// FromCanonical starts a result from a canonical record.
func FromCanonical(e *catalog.CanonicalEmotion) AnalysisResult {
	return AnalysisResult{
		ID:          e.ID,
		Label:       e.Label,
		Color:       e.Color,
		Description: e.Description,
		Needs:       e.Needs,
	}
}

// RenderedResult is an AnalysisResult flattened to one language.
type RenderedResult struct {
	ID              string   `json:"id" yaml:"id"`
	Label           string   `json:"label" yaml:"label"`
	Color           string   `json:"color" yaml:"color"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	Needs           []string `json:"needs,omitempty" yaml:"needs,omitempty"`
	ComponentLabels []string `json:"componentLabels,omitempty" yaml:"componentLabels,omitempty"`
	HierarchyPath   []string `json:"hierarchyPath,omitempty" yaml:"hierarchyPath,omitempty"`
	MatchStrength   string   `json:"matchStrength,omitempty" yaml:"matchStrength,omitempty"`
	Valence         *float64 `json:"valence,omitempty" yaml:"valence,omitempty"`
	Arousal         *float64 `json:"arousal,omitempty" yaml:"arousal,omitempty"`
}

// Render flattens r to lang.
func (r AnalysisResult) Render(lang catalog.Lang) RenderedResult {
	out := RenderedResult{
		ID:            r.ID,
		Label:         r.Label.In(lang),
		Color:         r.Color,
		Description:   r.Description.In(lang),
		Needs:         r.Needs.In(lang),
		MatchStrength: r.MatchStrength,
		Valence:       r.Valence,
		Arousal:       r.Arousal,
	}
	if len(r.ComponentLabels) > 0 {
		out.ComponentLabels = catalog.Labels(r.ComponentLabels, lang)
	}
	if len(r.HierarchyPath) > 0 {
		out.HierarchyPath = catalog.Labels(r.HierarchyPath, lang)
	}
	return out
}

// ResultIDs returns the ids of results in order.
func ResultIDs(results []AnalysisResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
