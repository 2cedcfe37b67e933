package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/session"
	"github.com/teranos/moodmap/sym"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// renderedReport is a session.Report flattened to one language.
type renderedReport struct {
	SessionID     string                 `json:"sessionId" yaml:"sessionId"`
	ModelID       string                 `json:"modelId" yaml:"modelId"`
	Language      catalog.Lang           `json:"language" yaml:"language"`
	Picks         []string               `json:"picks" yaml:"picks"`
	Results       []model.RenderedResult `json:"results" yaml:"results"`
	Tier          crisis.Tier            `json:"tier" yaml:"tier"`
	EffectiveTier crisis.Tier            `json:"effectiveTier" yaml:"effectiveTier"`
	Narrative     string                 `json:"narrative" yaml:"narrative"`
	Recorded      bool                   `json:"recorded" yaml:"recorded"`
	At            time.Time              `json:"at" yaml:"at"`
}

func renderReport(r session.Report, lang catalog.Lang) renderedReport {
	out := renderedReport{
		SessionID:     r.SessionID,
		ModelID:       r.ModelID,
		Language:      lang,
		Picks:         make([]string, len(r.Picks)),
		Results:       make([]model.RenderedResult, len(r.Results)),
		Tier:          r.Tier,
		EffectiveTier: r.EffectiveTier,
		Narrative:     r.Narrative,
		Recorded:      r.Recorded,
		At:            r.At,
	}
	for i, p := range r.Picks {
		out.Picks[i] = p.String()
	}
	for i, res := range r.Results {
		out.Results[i] = res.Render(lang)
	}
	return out
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return unsupportedFormat(format)
}

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return unsupportedFormat(format)
}

func unsupportedFormat(format string) error {
	return errors.WithHint(
		errors.Newf("unsupported format: %s", format),
		"supported formats: text, json, yaml",
	)
}

// writeReport prints a report in format.
func writeReport(w io.Writer, r session.Report, lang catalog.Lang, format string) error {
	rendered := renderReport(r, lang)
	if format != FormatText {
		return encode(w, rendered, format)
	}

	pterm.Fprintln(w, pterm.Bold.Sprintf("%s %s", sym.Glyph(r.ModelID), sym.Label(r.ModelID)))
	if len(rendered.Results) == 0 {
		pterm.Fprintln(w, pterm.Gray("Nothing selected yet."))
		return nil
	}
	if err := resultTable(w, rendered.Results).Render(); err != nil {
		return err
	}
	printTierBadge(w, r.EffectiveTier, r.Tier)
	pterm.Fprintln(w)
	pterm.Fprintln(w, rendered.Narrative)
	if r.Recorded {
		pterm.Fprintln(w, pterm.Gray(fmt.Sprintf("%s recorded as %s", sym.DB, r.SessionID)))
	}
	return nil
}

func resultTable(w io.Writer, results []model.RenderedResult) *pterm.TablePrinter {
	data := [][]string{{"Emotion", "Match", "Path"}}
	for _, r := range results {
		path := r.HierarchyPath
		if len(path) == 0 {
			path = r.ComponentLabels
		}
		data = append(data, []string{r.Label, r.MatchStrength, strings.Join(path, " › ")})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w)
}

// printTierBadge prints the effective tier. Nothing is printed for None.
func printTierBadge(w io.Writer, effective, classified crisis.Tier) {
	msg := fmt.Sprintf("%s %s", sym.Crisis, effective)
	if effective != classified {
		msg += fmt.Sprintf(" (raised from %s by recent sessions)", classified)
	}
	switch effective {
	case crisis.None:
	case crisis.Tier1:
		pterm.Info.WithWriter(w).Println(msg)
	case crisis.Tier2:
		pterm.Warning.WithWriter(w).Println(msg)
	default:
		pterm.Error.WithWriter(w).Println(msg + ". Please consider reaching out to someone you trust or a local support line.")
	}
}
