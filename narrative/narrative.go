// Package narrative turns analysis results into a short, supportive paragraph.
//
// The paragraph is assembled from up to five slots (what was named, its
// overall tone, its energy, what the feelings are for, and what might help),
// each filled from fixed templates. Nothing is generated freely and no
// template uses diagnostic language.
package narrative

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/model"
)

// Arousal thresholds for the energy slot.
const (
	HighArousal = 0.65
	LowArousal  = 0.35
)

// MaxFunctionSentences caps the adaptive-function slot.
const MaxFunctionSentences = 2

// SevereDistressCount is the number of high-distress results from which the
// narrative switches to its severe wording.
const SevereDistressCount = 2

// Synthesizer builds narratives.
type Synthesizer struct {
	high map[string]struct{}
}

// New returns a Synthesizer using cat's high-distress set.
func New(cat *catalog.Catalog) *Synthesizer {
	return &Synthesizer{high: cat.HighDistress()}
}

// Synthesize returns the narrative for results in lang, or "" for no results.
func (s *Synthesizer) Synthesize(results []model.AnalysisResult, lang catalog.Lang) string {
	if len(results) == 0 {
		return ""
	}
	p, ok := templates[lang]
	if !ok {
		p = templates[catalog.EN]
		lang = catalog.EN
	}
	severe := s.isSevere(results)

	slots := []string{
		cardinality(results, lang, p),
		s.valence(results, lang, p, severe),
		energy(results, p),
	}
	slots = append(slots, functions(results, lang)...)
	slots = append(slots, needs(results, lang, p, severe))

	var out []string
	for _, slot := range slots {
		if slot != "" {
			out = append(out, slot)
		}
	}
	return strings.Join(out, " ")
}

// IsSevere reports whether results would get the severe wording.
func (s *Synthesizer) IsSevere(results []model.AnalysisResult) bool {
	return s.isSevere(results)
}

func (s *Synthesizer) isSevere(results []model.AnalysisResult) bool {
	n := 0
	seen := make(map[string]struct{})
	for _, r := range results {
		if _, ok := s.high[r.ID]; !ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		n++
	}
	return n >= SevereDistressCount
}

func cardinality(results []model.AnalysisResult, lang catalog.Lang, p phrases) string {
	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = strings.ToLower(r.Label.In(lang))
	}
	switch len(labels) {
	case 1:
		return fmt.Sprintf(p.one, labels[0])
	case 2:
		return fmt.Sprintf(p.two, joinList(labels, p.and))
	}
	return fmt.Sprintf(p.many, joinList(labels, p.and))
}

func (s *Synthesizer) valence(results []model.AnalysisResult, lang catalog.Lang, p phrases, severe bool) string {
	if severe {
		return p.severe
	}

	ids := make(map[string]struct{}, len(results))
	for _, r := range results {
		ids[r.ID] = struct{}{}
	}
	for _, pair := range curatedPairs {
		_, hasA := ids[pair.a]
		_, hasB := ids[pair.b]
		if hasA && hasB {
			return pair.text.In(lang)
		}
	}

	var pos, neg int
	for _, r := range results {
		if r.Valence == nil {
			continue
		}
		if *r.Valence >= 0 {
			pos++
		} else {
			neg++
		}
	}
	switch {
	case pos > 0 && neg > 0:
		return p.mixed
	case pos > 0:
		return p.positive
	case neg > 0:
		return p.negative
	}
	return ""
}

func energy(results []model.AnalysisResult, p phrases) string {
	var sum float64
	n := 0
	for _, r := range results {
		if r.Arousal != nil {
			sum += *r.Arousal
			n++
		}
	}
	if n == 0 {
		return ""
	}
	switch avg := sum / float64(n); {
	case avg >= HighArousal:
		return p.highEnergy
	case avg < LowArousal:
		return p.lowEnergy
	default:
		return p.steady
	}
}

func functions(results []model.AnalysisResult, lang catalog.Lang) []string {
	var out []string
	for _, r := range results {
		if len(out) == MaxFunctionSentences {
			break
		}
		clause := firstClause(r.Description.In(lang))
		if clause == "" {
			continue
		}
		out = append(out, r.Label.In(lang)+": "+lowerFirst(clause)+".")
	}
	return out
}

func needs(results []model.AnalysisResult, lang catalog.Lang, p phrases, severe bool) string {
	var list []string
	seen := make(map[string]struct{})
	for _, r := range results {
		for _, n := range r.Needs.In(lang) {
			key := strings.ToLower(n)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		return ""
	}
	if severe {
		return fmt.Sprintf(p.deserve, joinList(list, p.and))
	}
	return fmt.Sprintf(p.mayNeed, joinList(list, p.and))
}

// firstClause returns text up to the first '.' or ';', trimmed.
func firstClause(text string) string {
	if i := strings.IndexAny(text, ".;"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(items []string, and string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + and + " " + items[len(items)-1]
}
