package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/cmd/moodmap/commands"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/logger"
)

var rootCmd = &cobra.Command{
	Use:   "moodmap",
	Short: "moodmap - name what you feel",
	Long: `moodmap - name what you feel.

moodmap helps identify an emotional state through one of four models, checks
the result for signs of acute distress and writes a short, supportive summary.

Available commands:
  analyze  - Name a feeling from a sequence of picks
  nearest  - Find emotions near a valence/arousal point
  replay   - Replay a scripted select/deselect sequence
  catalog  - Inspect and validate the emotion data feed
  history  - List recorded sessions
  am       - Manage configuration ("I am")

Examples:
  moodmap analyze --model wheel sad lonely isolated
  moodmap nearest --valence 0.5 --arousal -0.5
  moodmap catalog validate
  moodmap am show`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs := false
		if cfg, err := am.Load(); err == nil {
			jsonLogs = cfg.Log.JSON
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.NearestCmd)
	rootCmd.AddCommand(commands.ReplayCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
