package catalog

import (
	"strings"

	"github.com/teranos/moodmap/errors"
)

// Lang selects the output language at render time.
type Lang string

const (
	EN Lang = "en"
	IT Lang = "it"
)

// Languages lists every supported output language.
var Languages = []Lang{EN, IT}

// ParseLang accepts "en" or "it" (case-insensitive). An empty string means EN.
func ParseLang(s string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case "", EN:
		return EN, nil
	case IT:
		return IT, nil
	}
	return "", errors.WithHint(errors.Newf("unsupported language %q", s), "supported languages: en, it")
}

// Text is a bilingual string.
type Text struct {
	EN string `yaml:"en" json:"en" jsonschema:"required"`
	IT string `yaml:"it,omitempty" json:"it,omitempty"`
}

// In returns the text in lang, falling back to English.
func (t Text) In(lang Lang) string {
	if lang == IT && t.IT != "" {
		return t.IT
	}
	return t.EN
}

// IsZero reports whether the text is empty in every language.
func (t Text) IsZero() bool { return t.EN == "" && t.IT == "" }

// TextList is a bilingual list of short phrases, used for needs.
type TextList struct {
	EN []string `yaml:"en,omitempty" json:"en,omitempty"`
	IT []string `yaml:"it,omitempty" json:"it,omitempty"`
}

// In returns the list in lang, falling back to English.
func (l TextList) In(lang Lang) []string {
	if lang == IT && len(l.IT) > 0 {
		return l.IT
	}
	return l.EN
}

// IsZero reports whether the list is empty in every language.
func (l TextList) IsZero() bool { return len(l.EN) == 0 && len(l.IT) == 0 }

// Labels renders each Text in lang.
func Labels(texts []Text, lang Lang) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = t.In(lang)
	}
	return out
}
