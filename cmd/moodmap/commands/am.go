package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage moodmap configuration",
	Long: `am — Manage moodmap configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (MOODMAP_* prefix)
2. Project config (./am.toml, searched up from the working directory)
3. User config (~/.moodmap/am.toml)
4. System config (/etc/moodmap/am.toml)
5. Default values

Examples:
  moodmap am show                          # Show current configuration
  moodmap am show --format json            # Show configuration in JSON format
  moodmap am get catalog.language          # Get a value and where it came from
  moodmap am set crisis.escalation_window_days 14
  moodmap am validate                      # Validate current configuration
  moodmap am where                         # Show which files are read`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective moodmap configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., database.path, somatic.max_results)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the user config",
	Long: `Set a value in ~/.moodmap/am.toml using dot notation.

The value is parsed as TOML when possible (numbers, booleans, arrays) and kept
as a string otherwise. The resulting config is validated before it is written
and the previous file is kept as a backup.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	return writeSettings(cmd.OutOrStdout(), am.GetViper().AllSettings(), configFormat)
}

// writeSettings prints a nested settings map in format.
func writeSettings(w io.Writer, settings map[string]any, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# moodmap configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# moodmap configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	setting, err := am.Lookup(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, setting.Value)
	source := string(setting.Source)
	if setting.SourcePath != "" {
		source += " " + setting.SourcePath
	}
	fmt.Fprintln(cmd.ErrOrStderr(), pterm.Gray("from "+source))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := am.Set(args[0], args[1])
	if err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printf("Set %s in %s\n", args[0], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.Introspect()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  [DEFAULT]  Built-in defaults")
	for _, p := range am.ConfigPaths() {
		state := pterm.Gray("missing")
		if _, err := os.Stat(p.Path); err == nil {
			state = pterm.Green("found")
		}
		fmt.Fprintf(w, "  [%-7s]  %s (%s)\n", p.Source, p.Path, state)
	}
	fmt.Fprintf(w, "  [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Active configuration:")
	for _, s := range settings {
		origin := string(s.Source)
		if s.SourcePath != "" {
			origin += " " + s.SourcePath
		}
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		fmt.Fprintf(w, "  %s = %s  %s\n", s.Key, value, pterm.Gray("("+origin+")"))
	}
	return nil
}
