// Package crisis classifies named emotions into risk tiers so a host can
// decide how prominently to surface support resources.
//
// Classification is rule-based and deterministic. Only emotions tagged
// distressTier: high in the catalog count; specific pairs and triples of
// them raise the tier further.
package crisis

import (
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
)

// Tier4Combos are triples that classify as Tier4 when all three are present.
var Tier4Combos = [][3]string{
	{"hopeless", "worthless", "trapped"},
	{"despair", "empty", "isolated"},
	{"hopeless", "numb", "isolated"},
}

// Tier3Combos are pairs that classify as Tier3 when both are present.
var Tier3Combos = [][2]string{
	{"hopeless", "worthless"},
	{"hopeless", "trapped"},
	{"despair", "isolated"},
	{"worthless", "shame"},
	{"empty", "numb"},
}

// Classifier maps result ids to a Tier.
type Classifier struct {
	high map[string]struct{}
}

// NewClassifier captures the catalog's high-distress set. Every id named by
// a combo must be in that set.
func NewClassifier(cat *catalog.Catalog) (*Classifier, error) {
	c := &Classifier{high: cat.HighDistress()}
	for _, combo := range Tier4Combos {
		if err := c.checkCombo(combo[:]); err != nil {
			return nil, err
		}
	}
	for _, combo := range Tier3Combos {
		if err := c.checkCombo(combo[:]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Classifier) checkCombo(ids []string) error {
	for _, id := range ids {
		if _, ok := c.high[id]; !ok {
			return errors.Integrityf("crisis combo %v names %q, which is not tagged distressTier: high", ids, id)
		}
	}
	return nil
}

// Distress returns the high-distress ids among ids, in input order and
// without repeats.
func (c *Classifier) Distress(ids []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := c.high[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Classify returns the tier of ids. The first matching rule wins: no
// high-distress ids is None, a full triple is Tier4, a full pair is Tier3,
// two or more high-distress ids is Tier2, and one is Tier1.
func (c *Classifier) Classify(ids []string) Tier {
	distress := c.Distress(ids)
	if len(distress) == 0 {
		return None
	}

	present := make(map[string]struct{}, len(distress))
	for _, id := range distress {
		present[id] = struct{}{}
	}
	all := func(combo []string) bool {
		for _, id := range combo {
			if _, ok := present[id]; !ok {
				return false
			}
		}
		return true
	}

	for _, combo := range Tier4Combos {
		if all(combo[:]) {
			return Tier4
		}
	}
	for _, combo := range Tier3Combos {
		if all(combo[:]) {
			return Tier3
		}
	}
	if len(distress) >= 2 {
		return Tier2
	}
	return Tier1
}
