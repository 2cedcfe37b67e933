package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/internal/util"
	"github.com/teranos/moodmap/model"
)

func setup(t *testing.T) (*catalog.Catalog, *Synthesizer) {
	t.Helper()
	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)
	return cat, New(cat)
}

func results(t *testing.T, cat *catalog.Catalog, ids ...string) []model.AnalysisResult {
	t.Helper()
	out := make([]model.AnalysisResult, len(ids))
	for i, id := range ids {
		e, err := cat.MustGet(id)
		require.NoError(t, err)
		out[i] = model.FromCanonical(e)
	}
	return out
}

func TestSynthesizeEmpty(t *testing.T) {
	_, s := setup(t)
	assert.Equal(t, "", s.Synthesize(nil, catalog.EN))
	assert.Equal(t, "", s.Synthesize([]model.AnalysisResult{}, catalog.IT))
}

func TestSynthesizeSingle(t *testing.T) {
	cat, s := setup(t)
	got := s.Synthesize(results(t, cat, "joy"), catalog.EN)

	assert.Equal(t, "You're feeling joy. "+
		"Joy: signals that something good is happening for you. "+
		"You may need celebration and sharing.", got)
}

func TestSynthesizeCardinality(t *testing.T) {
	cat, s := setup(t)

	two := s.Synthesize(results(t, cat, "joy", "trust"), catalog.EN)
	assert.True(t, strings.HasPrefix(two, "You're feeling two things at once: joy and trust."), two)

	one := s.Synthesize(results(t, cat, "joy"), catalog.EN)
	assert.True(t, strings.HasPrefix(one, "You're feeling joy."), one)
	assert.NotContains(t, one, "two things")

	three := s.Synthesize(results(t, cat, "joy", "trust", "fear"), catalog.EN)
	assert.True(t, strings.HasPrefix(three, "You're holding several feelings at once: joy, trust and fear."), three)
}

func TestSynthesizeFunctionSlotIsCapped(t *testing.T) {
	cat, s := setup(t)
	got := s.Synthesize(results(t, cat, "joy", "trust", "fear"), catalog.EN)

	assert.Contains(t, got, "Joy: signals that something good is happening for you.")
	assert.Contains(t, got, "Trust: tells you that someone or something feels safe to lean on.")
	assert.NotContains(t, got, "Fear:")
}

func TestSynthesizeNeedsAreDeduplicated(t *testing.T) {
	cat, s := setup(t)
	got := s.Synthesize(results(t, cat, "gratitude", "lonely"), catalog.EN)
	assert.Contains(t, got, "You may need connection, appreciation and company.")
}

func TestSynthesizeSevere(t *testing.T) {
	cat, s := setup(t)
	rs := results(t, cat, "hopeless", "worthless")
	require.True(t, s.IsSevere(rs))

	got := s.Synthesize(rs, catalog.EN)
	assert.Contains(t, got, "This sounds painful, and you deserve support right now.")
	assert.Contains(t, got, "You deserve support, company, a small next step, compassion and belonging.")
	assert.NotContains(t, got, "You may need")
}

func TestSynthesizeSingleDistressIsNotSevere(t *testing.T) {
	cat, s := setup(t)
	rs := results(t, cat, "hopeless", "joy")
	assert.False(t, s.IsSevere(rs))

	got := s.Synthesize(rs, catalog.EN)
	assert.NotContains(t, got, "deserve")
	assert.Contains(t, got, "You may need")
}

func TestSynthesizeCuratedPair(t *testing.T) {
	cat, s := setup(t)
	for _, ids := range [][]string{{"joy", "gratitude"}, {"gratitude", "joy"}} {
		got := s.Synthesize(results(t, cat, ids...), catalog.EN)
		assert.Contains(t, got, "Joy and gratitude often travel together")
	}
}

func TestSynthesizeValenceProfile(t *testing.T) {
	cat, s := setup(t)

	rs := results(t, cat, "joy", "grief")
	assert.NotContains(t, s.Synthesize(rs, catalog.EN), "pleasant", "no valence data, no valence slot")

	rs[0].Valence = util.Ptr(0.8)
	rs[1].Valence = util.Ptr(-0.8)
	assert.Contains(t, s.Synthesize(rs, catalog.EN), "pleasant and difficult feelings side by side")

	rs[1].Valence = util.Ptr(0.0)
	assert.Contains(t, s.Synthesize(rs, catalog.EN), "carry a pleasant tone")

	rs[0].Valence = util.Ptr(-0.2)
	rs[1].Valence = nil
	assert.Contains(t, s.Synthesize(rs, catalog.EN), "heavy to carry")
}

func TestSynthesizeSofterFramingWhenNotSevere(t *testing.T) {
	cat, s := setup(t)

	single := results(t, cat, "hopeless")
	single[0].Valence = util.Ptr(-0.8)
	got := s.Synthesize(single, catalog.EN)
	assert.Contains(t, got, "something meaningful")
	assert.NotContains(t, got, "deserve")
	assert.Contains(t, s.Synthesize(single, catalog.IT), "qualcosa di significativo")

	severe := results(t, cat, "hopeless", "worthless")
	severe[0].Valence = util.Ptr(-0.8)
	severe[1].Valence = util.Ptr(-0.7)
	got = s.Synthesize(severe, catalog.EN)
	assert.Contains(t, got, "sounds painful")
	assert.NotContains(t, got, "something meaningful")
}

func TestSynthesizeEnergy(t *testing.T) {
	cat, s := setup(t)
	rs := results(t, cat, "joy", "trust")

	assert.NotContains(t, s.Synthesize(rs, catalog.EN), "energy")

	tests := []struct {
		name string
		a, b *float64
		want string
	}{
		{"high", util.Ptr(0.9), util.Ptr(0.5), "a lot of energy"},
		{"threshold is high", util.Ptr(0.65), nil, "a lot of energy"},
		{"low", util.Ptr(0.1), util.Ptr(-0.5), "low in energy"},
		{"steady", util.Ptr(0.4), util.Ptr(0.5), "steady, moderate energy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs[0].Arousal, rs[1].Arousal = tt.a, tt.b
			assert.Contains(t, s.Synthesize(rs, catalog.EN), tt.want)
		})
	}
}

func TestSynthesizeItalian(t *testing.T) {
	cat, s := setup(t)

	got := s.Synthesize(results(t, cat, "joy", "trust"), catalog.IT)
	assert.True(t, strings.HasPrefix(got, "Stai provando due emozioni insieme: gioia e fiducia."), got)
	assert.Contains(t, got, "Potresti aver bisogno di celebrazione, condivisione, sicurezza e affidabilità.")

	severe := s.Synthesize(results(t, cat, "hopeless", "worthless"), catalog.IT)
	assert.Contains(t, severe, "meriti sostegno")
	assert.Contains(t, severe, "Meriti sostegno, compagnia, un piccolo passo, compassione e appartenenza.")
}

func TestSynthesizeUnknownLanguageFallsBackToEnglish(t *testing.T) {
	cat, s := setup(t)
	got := s.Synthesize(results(t, cat, "joy"), catalog.Lang("de"))
	assert.True(t, strings.HasPrefix(got, "You're feeling joy."), got)
}

func TestNoDiagnosticLanguage(t *testing.T) {
	cat, s := setup(t)
	forbidden := []string{
		"disorder", "diagnos", "patholog", "symptom", "illness", "syndrome", "clinical",
		"disturbo", "diagnosi", "patologi", "sintom", "malattia", "sindrome", "clinic",
	}

	check := func(t *testing.T, text string) {
		lower := strings.ToLower(text)
		for _, word := range forbidden {
			assert.NotContains(t, lower, word)
		}
	}

	for _, lang := range catalog.Languages {
		p := templates[lang]
		for _, text := range []string{p.one, p.two, p.many, p.severe, p.positive, p.negative, p.mixed, p.highEnergy, p.lowEnergy, p.steady, p.mayNeed, p.deserve} {
			check(t, text)
		}
		for _, pair := range curatedPairs {
			check(t, pair.text.In(lang))
		}
		for _, id := range cat.IDs() {
			check(t, s.Synthesize(results(t, cat, id), lang))
		}
	}
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", joinList(nil, "and"))
	assert.Equal(t, "a", joinList([]string{"a"}, "and"))
	assert.Equal(t, "a e b", joinList([]string{"a", "b"}, "e"))
	assert.Equal(t, "a, b and c", joinList([]string{"a", "b", "c"}, "and"))
}

func TestFirstClause(t *testing.T) {
	assert.Equal(t, "Signals something", firstClause("Signals something; more."))
	assert.Equal(t, "Short", firstClause("Short. Then more; and more."))
	assert.Equal(t, "no terminator", firstClause(" no terminator "))
	assert.Equal(t, "ébahi", lowerFirst("Ébahi"))
}
