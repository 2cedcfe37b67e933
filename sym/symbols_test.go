package sym

import (
	"testing"
	"unicode/utf8"
)

func TestGlyphAndFromGlyphAreBidirectional(t *testing.T) {
	for _, e := range registry {
		if got := Glyph(e.id); got != e.glyph {
			t.Errorf("Glyph(%q) = %q, want %q", e.id, got, e.glyph)
		}
		if got := FromGlyph(e.glyph); got != e.id {
			t.Errorf("FromGlyph(%q) = %q, want %q", e.glyph, got, e.id)
		}
	}
}

func TestGlyphsAreUniqueSingleRunes(t *testing.T) {
	seen := make(map[string]string)
	for _, e := range registry {
		if prev, dup := seen[e.glyph]; dup {
			t.Errorf("glyph %q used by both %q and %q", e.glyph, prev, e.id)
		}
		seen[e.glyph] = e.id
		if n := utf8.RuneCountInString(e.glyph); n != 1 {
			t.Errorf("glyph for %q has %d runes, want 1", e.id, n)
		}
	}
}

func TestPaletteOrderCoversModels(t *testing.T) {
	want := []string{"plutchik", "wheel", "dimensional", "somatic"}
	if len(PaletteOrder) != len(want) {
		t.Fatalf("PaletteOrder has %d entries, want %d", len(PaletteOrder), len(want))
	}
	for i, glyph := range PaletteOrder {
		if FromGlyph(glyph) != want[i] {
			t.Errorf("PaletteOrder[%d] = %q (%s), want %s", i, glyph, FromGlyph(glyph), want[i])
		}
	}
}

func TestUnknownIDs(t *testing.T) {
	if Glyph("tarot") != "" {
		t.Error("expected empty glyph for unknown id")
	}
	if Label("tarot") != "tarot" {
		t.Error("expected Label to fall back to the id")
	}
	if Describe("tarot") != "" {
		t.Error("expected empty description for unknown id")
	}
}
