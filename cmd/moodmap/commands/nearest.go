package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/dimensional"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/internal/util"
	"github.com/teranos/moodmap/sym"
)

// NearestCmd lists reference emotions close to a point on the
// valence/arousal plane.
var NearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: sym.Dimensional + " Find emotions near a valence/arousal point",
	Long: sym.Dimensional + ` nearest — Find emotions near a valence/arousal point

Valence runs from -1 (unpleasant) to 1 (pleasant), arousal from -1 (calm) to
1 (activated).

Examples:
  moodmap nearest --valence 0.6 --arousal -0.4
  moodmap nearest --valence -0.7 --arousal 0.8 -k 3 --format json`,
	Args: cobra.NoArgs,
	RunE: runNearest,
}

var (
	nearestValence float64
	nearestArousal float64
	nearestK       int
	nearestLang    string
	nearestFormat  string
)

func init() {
	NearestCmd.Flags().Float64Var(&nearestValence, "valence", 0, "Valence in [-1, 1]")
	NearestCmd.Flags().Float64Var(&nearestArousal, "arousal", 0, "Arousal in [-1, 1]")
	NearestCmd.Flags().IntVarP(&nearestK, "k", "k", 5, "Number of emotions to list")
	NearestCmd.Flags().StringVar(&nearestLang, "lang", "", "Output language: en, it (default from catalog.language)")
	NearestCmd.Flags().StringVar(&nearestFormat, "format", FormatText, "Output format: text, json, yaml")
}

// neighbor is one row of nearest output.
type neighbor struct {
	ID       string               `json:"id" yaml:"id"`
	Label    string               `json:"label" yaml:"label"`
	Valence  float64              `json:"valence" yaml:"valence"`
	Arousal  float64              `json:"arousal" yaml:"arousal"`
	Quadrant dimensional.Quadrant `json:"quadrant" yaml:"quadrant"`
	Distance float64              `json:"distance" yaml:"distance"`
}

func runNearest(cmd *cobra.Command, args []string) error {
	if err := checkFormat(nearestFormat); err != nil {
		return err
	}
	if !util.InSignedUnit(nearestValence) || !util.InSignedUnit(nearestArousal) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidSelection, "point (%g, %g) is off the plane", nearestValence, nearestArousal),
			"valence and arousal must both be between -1 and 1",
		)
	}

	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	lang, err := a.language(nearestLang)
	if err != nil {
		return err
	}
	s, err := a.open(cmd.Context(), dimensional.ModelID)
	if err != nil {
		return err
	}
	m, ok := s.Engine().Unwrap().(*dimensional.Model)
	if !ok {
		return errors.Newf("model %s is not a dimensional model", dimensional.ModelID)
	}

	rows := neighbors(m, nearestValence, nearestArousal, nearestK, lang)
	return writeNeighbors(cmd.OutOrStdout(), rows, nearestFormat)
}

func neighbors(m *dimensional.Model, valence, arousal float64, k int, lang catalog.Lang) []neighbor {
	points := m.Nearest(valence, arousal, k)
	out := make([]neighbor, len(points))
	for i, p := range points {
		out[i] = neighbor{
			ID:       p.ID,
			Label:    p.Label.In(lang),
			Valence:  p.Valence,
			Arousal:  p.Arousal,
			Quadrant: p.Quadrant,
			Distance: p.Distance(valence, arousal),
		}
	}
	return out
}

func writeNeighbors(w io.Writer, rows []neighbor, format string) error {
	if format != FormatText {
		return encode(w, rows, format)
	}
	data := [][]string{{"Emotion", "Valence", "Arousal", "Quadrant", "Distance"}}
	for _, r := range rows {
		data = append(data, []string{
			r.Label,
			fmt.Sprintf("%+.2f", r.Valence),
			fmt.Sprintf("%+.2f", r.Arousal),
			string(r.Quadrant),
			fmt.Sprintf("%.3f", r.Distance),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}
