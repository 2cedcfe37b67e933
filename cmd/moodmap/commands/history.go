package commands

import (
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/journal"
	"github.com/teranos/moodmap/sym"
)

// HistoryCmd lists recorded sessions.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: sym.DB + " List recorded sessions",
	Long: sym.DB + ` history — List recorded sessions

Sessions are recorded by analyze --record and replay --record. The escalation
window (crisis.escalation_window_days) looks at the same entries.

Examples:
  moodmap history              # Last 7 days
  moodmap history --days 30
  moodmap history --format json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyDays   int
	historyFormat string
)

func init() {
	HistoryCmd.Flags().IntVar(&historyDays, "days", 7, "How many days back to list")
	HistoryCmd.Flags().StringVar(&historyFormat, "format", FormatText, "Output format: text, json, yaml")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := checkFormat(historyFormat); err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), appOptions{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	since := time.Now().Add(-time.Duration(historyDays) * 24 * time.Hour)
	entries, err := a.journal.Since(cmd.Context(), since)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), entries, historyFormat)
}

func writeHistory(w io.Writer, entries []journal.Entry, format string) error {
	if format != FormatText {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return encode(w, entries, format)
	}
	if len(entries) == 0 {
		pterm.Fprintln(w, pterm.Gray("No sessions recorded in this period."))
		return nil
	}
	data := [][]string{{"When", "Model", "Results", "Tier"}}
	for _, e := range entries {
		tier := string(e.EffectiveTier)
		if e.EffectiveTier != e.Tier {
			tier += " (from " + string(e.Tier) + ")"
		}
		if e.EffectiveTier == crisis.None {
			tier = "-"
		}
		data = append(data, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			sym.Glyph(e.ModelID) + " " + e.ModelID,
			strings.Join(e.ResultIDs, ", "),
			tier,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}
