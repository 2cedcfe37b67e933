package model

import (
	"strconv"
	"strings"

	"github.com/teranos/moodmap/errors"
)

// Pick is the serializable form of a selection. For the somatic model ID is
// the region id and Sensation/Intensity carry the user's configuration; the
// other models only use ID.
type Pick struct {
	ID        string `json:"id" yaml:"id" toml:"id"`
	Sensation string `json:"sensation,omitempty" yaml:"sensation,omitempty" toml:"sensation,omitempty"`
	Intensity int    `json:"intensity,omitempty" yaml:"intensity,omitempty" toml:"intensity,omitempty"`
}

// EmotionID implements Emotion.
func (p Pick) EmotionID() string { return p.ID }

// Pick implements Emotion.
func (p Pick) Pick() Pick { return p }

// String renders the pick in the form ParsePick accepts.
func (p Pick) String() string {
	if p.Sensation == "" && p.Intensity == 0 {
		return p.ID
	}
	return p.ID + ":" + p.Sensation + ":" + strconv.Itoa(p.Intensity)
}

// ParsePick parses "id" or "region:sensation:intensity".
func ParsePick(s string) (Pick, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Pick{}, errors.Wrap(errors.ErrInvalidSelection, "empty pick")
		}
		return Pick{ID: parts[0]}, nil
	case 3:
		n, err := strconv.Atoi(parts[2])
		if err != nil || parts[0] == "" || parts[1] == "" {
			return Pick{}, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidSelection, "malformed pick %q", s),
				"somatic picks use region:sensation:intensity, e.g. chest:tightness:2")
		}
		return Pick{ID: parts[0], Sensation: parts[1], Intensity: n}, nil
	}
	return Pick{}, errors.WithHint(
		errors.Wrapf(errors.ErrInvalidSelection, "malformed pick %q", s),
		"use an emotion id, or region:sensation:intensity for the somatic model")
}

// PickIDs returns the emotion ids of picks in order.
func PickIDs(picks []Pick) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.ID
	}
	return out
}
