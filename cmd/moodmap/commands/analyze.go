package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/sym"
)

// AnalyzeCmd runs picks through a model and prints the report.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze <pick>...",
	Short: sym.Narrative + " Name a feeling from a sequence of picks",
	Long: sym.Narrative + ` analyze — Name a feeling from a sequence of picks

Each pick is applied as a select event, in order, exactly as a user tapping
through the model would. Branch picks on the wheel drill down; the result is
analyzed, classified and written up as a short narrative.

Somatic picks take the form region:sensation:intensity.

Examples:
  moodmap analyze --model plutchik joy trust
  moodmap analyze --model wheel sad lonely isolated
  moodmap analyze --model somatic chest:tightness:3 stomach:fluttering:2
  moodmap analyze --model wheel happy content joy --format json
  moodmap analyze --model plutchik sadness --record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeModel  string
	analyzeLang   string
	analyzeFormat string
	analyzeRecord bool
)

func init() {
	AnalyzeCmd.Flags().StringVarP(&analyzeModel, "model", "m", "plutchik", "Model to use: plutchik, wheel, dimensional, somatic")
	AnalyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "Output language: en, it (default from catalog.language)")
	AnalyzeCmd.Flags().StringVar(&analyzeFormat, "format", FormatText, "Output format: text, json, yaml")
	AnalyzeCmd.Flags().BoolVar(&analyzeRecord, "record", false, "Record the session in the journal and escalate using recent history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkFormat(analyzeFormat); err != nil {
		return err
	}
	picks, err := parsePicks(args)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{journal: analyzeRecord})
	if err != nil {
		return err
	}
	defer a.Close()

	lang, err := a.language(analyzeLang)
	if err != nil {
		return err
	}

	s, err := a.open(cmd.Context(), analyzeModel)
	if err != nil {
		return err
	}
	for _, p := range picks {
		if err := s.Select(p); err != nil {
			return err
		}
	}

	report, err := a.manager.Report(cmd.Context(), s, lang)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, lang, analyzeFormat)
}

func parsePicks(args []string) ([]model.Pick, error) {
	picks := make([]model.Pick, 0, len(args))
	for _, arg := range args {
		p, err := model.ParsePick(arg)
		if err != nil {
			return nil, errors.WithHint(err, "picks are emotion ids, or region:sensation:intensity for the somatic model")
		}
		picks = append(picks, p)
	}
	return picks, nil
}
