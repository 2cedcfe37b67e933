package somatic

import (
	"math"
	"sort"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
)

// Match strengths, from strongest to weakest.
const (
	StrengthClear    = "clear signal"
	StrengthPossible = "possible connection"
	StrengthExplore  = "worth exploring"
)

// Params tunes scoring.
type Params struct {
	MinScore      float64 // drop emotions scoring below this
	MaxResults    int
	StrongRatio   float64 // score/max needed for a clear signal
	StrongFloor   float64 // absolute score needed for a clear signal
	PossibleRatio float64
	PossibleFloor float64
}

// DefaultParams returns the standard scoring constants.
func DefaultParams() Params {
	return Params{
		MinScore:      0.5,
		MaxResults:    4,
		StrongRatio:   0.7,
		StrongFloor:   1.0,
		PossibleRatio: 0.4,
		PossibleFloor: 0.6,
	}
}

// Validate rejects parameters that would make ranking meaningless.
func (p Params) Validate() error {
	switch {
	case p.MinScore < 0:
		return errors.Newf("somatic min_score must be >= 0, got %v", p.MinScore)
	case p.MaxResults < 1:
		return errors.Newf("somatic max_results must be >= 1, got %d", p.MaxResults)
	case p.StrongRatio < 0 || p.StrongRatio > 1, p.PossibleRatio < 0 || p.PossibleRatio > 1:
		return errors.Newf("somatic ratios must be within [0,1], got strong=%v possible=%v", p.StrongRatio, p.PossibleRatio)
	case p.PossibleRatio > p.StrongRatio:
		return errors.Newf("somatic possible_ratio (%v) exceeds strong_ratio (%v)", p.PossibleRatio, p.StrongRatio)
	case p.StrongFloor < 0 || p.PossibleFloor < 0:
		return errors.New("somatic floors must be >= 0")
	}
	return nil
}

// CoherenceBonus multiplies the score of an emotion felt in n distinct body
// groups: 1.0 for one group, then 1.2, 1.3 and at most 1.4.
func CoherenceBonus(n int) float64 {
	if n <= 1 {
		return 1.0
	}
	return math.Min(1.0+0.1*float64(n), 1.4)
}

// Scored is one ranked emotion.
type Scored struct {
	Emotion     *catalog.CanonicalEmotion
	RawScore    float64 // sum of weight x intensity
	Score       float64 // RawScore x coherence bonus
	Groups      []Group
	Regions     []*Region
	Description *catalog.Text     // first context-specific override, if any
	Needs       *catalog.TextList // first context-specific override, if any
	Strength    string
}

// Rank scores the emotions pointed to by selections. Unconfigured selections
// are ignored.
func Rank(selections []Selection, p Params) []Scored {
	byID := make(map[string]*Scored)
	var order []*Scored

	for _, sel := range selections {
		if !sel.Configured() {
			continue
		}
		for _, sig := range sel.Region.Signals {
			if sig.Sensation != sel.Sensation || sig.MinIntensity > sel.Intensity {
				continue
			}
			sc, ok := byID[sig.EmotionID]
			if !ok {
				sc = &Scored{Emotion: sig.emotion}
				byID[sig.EmotionID] = sc
				order = append(order, sc)
			}
			sc.RawScore += sig.Weight * float64(sel.Intensity)
			sc.addGroup(sel.Region.Group)
			sc.addRegion(sel.Region)
			if sc.Description == nil && sig.Description != nil {
				sc.Description = sig.Description
			}
			if sc.Needs == nil && sig.Needs != nil {
				sc.Needs = sig.Needs
			}
		}
	}

	ranked := make([]Scored, 0, len(order))
	for _, sc := range order {
		sc.Score = sc.RawScore * CoherenceBonus(len(sc.Groups))
		if sc.Score >= p.MinScore {
			ranked = append(ranked, *sc)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > p.MaxResults {
		ranked = ranked[:p.MaxResults]
	}
	if len(ranked) == 0 {
		return ranked
	}

	top := ranked[0].Score
	for i := range ranked {
		ranked[i].Strength = p.strength(ranked[i].Score, top)
	}
	return ranked
}

func (p Params) strength(score, top float64) string {
	ratio := score / top
	switch {
	case ratio >= p.StrongRatio && score >= p.StrongFloor:
		return StrengthClear
	case ratio >= p.PossibleRatio && score >= p.PossibleFloor:
		return StrengthPossible
	default:
		return StrengthExplore
	}
}

func (s *Scored) addGroup(g Group) {
	for _, have := range s.Groups {
		if have == g {
			return
		}
	}
	s.Groups = append(s.Groups, g)
}

func (s *Scored) addRegion(r *Region) {
	for _, have := range s.Regions {
		if have.ID == r.ID {
			return
		}
	}
	s.Regions = append(s.Regions, r)
}
