package crisis

import (
	"strings"

	"github.com/teranos/moodmap/errors"
)

// Tier is the risk level of a set of named emotions.
type Tier string

const (
	None  Tier = "none"
	Tier1 Tier = "tier1" // one high-distress emotion
	Tier2 Tier = "tier2" // several high-distress emotions
	Tier3 Tier = "tier3" // a known high-risk pair
	Tier4 Tier = "tier4" // a known high-risk triple
)

var tiers = []Tier{None, Tier1, Tier2, Tier3, Tier4}

// Severity orders tiers from 0 (none) to 4.
func (t Tier) Severity() int {
	for i, k := range tiers {
		if t == k {
			return i
		}
	}
	return 0
}

func (t Tier) String() string { return string(t) }

// AtLeast reports whether t is as severe as o or more.
func (t Tier) AtLeast(o Tier) bool { return t.Severity() >= o.Severity() }

// next returns the tier one step up, capped at Tier4.
func (t Tier) next() Tier {
	s := t.Severity() + 1
	if s >= len(tiers) {
		return Tier4
	}
	return tiers[s]
}

// ParseTier accepts the tier names case-insensitively. An empty string is None.
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for _, k := range tiers {
		if string(k) == s {
			return k, nil
		}
	}
	return None, errors.Newf("unknown crisis tier %q", s)
}
