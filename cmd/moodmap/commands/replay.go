package commands

import (
	"context"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/session"
	"github.com/teranos/moodmap/sym"
)

// ReplayCmd plays a scripted sequence of events through a model.
var ReplayCmd = &cobra.Command{
	Use:   "replay <script.toml>",
	Short: sym.Registry + " Replay a scripted select/deselect sequence",
	Long: sym.Registry + ` replay — Replay a scripted select/deselect sequence

A script names a model and lists steps. Each step is a select, deselect or
clear. The visible ids and selection list are printed after every step and
the final selection is reported like analyze.

Example script:

  model = "wheel"
  lang = "it"

  [[step]]
  action = "select"
  pick = "sad"

  [[step]]
  action = "select"
  pick = "lonely"

  [[step]]
  action = "select"
  pick = "isolated"

Examples:
  moodmap replay session.toml
  moodmap replay session.toml --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var (
	replayFormat string
	replayRecord bool
)

func init() {
	ReplayCmd.Flags().StringVar(&replayFormat, "format", FormatText, "Output format for the final report: text, json, yaml")
	ReplayCmd.Flags().BoolVar(&replayRecord, "record", false, "Record the session in the journal")
}

// Step actions.
const (
	ActionSelect   = "select"
	ActionDeselect = "deselect"
	ActionClear    = "clear"
)

// Script is the on-disk form of a replay.
type Script struct {
	Model string `toml:"model"`
	Lang  string `toml:"lang"`
	Steps []Step `toml:"step"`
}

// Step is one scripted event.
type Step struct {
	Action string `toml:"action"`
	Pick   string `toml:"pick"`
}

// LoadScript decodes and checks a replay script.
func LoadScript(path string) (*Script, error) {
	var s Script
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode script %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("script %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	return &s, nil
}

// Validate checks that every step is well formed.
func (s *Script) Validate() error {
	if s.Model == "" {
		return errors.New("script has no model")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case ActionSelect, ActionDeselect:
			if _, err := model.ParsePick(st.Pick); err != nil {
				return errors.Wrapf(err, "step %d", i+1)
			}
		case ActionClear:
		default:
			return errors.WithHint(
				errors.Newf("step %d has unknown action %q", i+1, st.Action),
				"actions are select, deselect and clear",
			)
		}
	}
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	if err := checkFormat(replayFormat); err != nil {
		return err
	}
	script, err := LoadScript(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), appOptions{journal: replayRecord})
	if err != nil {
		return err
	}
	defer a.Close()

	lang, err := a.language(script.Lang)
	if err != nil {
		return err
	}
	s, err := a.open(cmd.Context(), script.Model)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	trace := w
	if replayFormat != FormatText {
		trace = io.Discard
	}
	if err := replay(s, script.Steps, trace); err != nil {
		return err
	}
	return report(cmd.Context(), a.manager, s, lang, replayFormat, w)
}

// replay applies steps to s, tracing the state after each one to w.
func replay(s *session.Session, steps []Step, w io.Writer) error {
	for i, st := range steps {
		switch st.Action {
		case ActionClear:
			s.Clear()
		default:
			p, err := model.ParsePick(st.Pick)
			if err != nil {
				return errors.Wrapf(err, "step %d", i+1)
			}
			if st.Action == ActionSelect {
				err = s.Select(p)
			} else {
				err = s.Deselect(p)
			}
			if err != nil {
				return errors.Wrapf(err, "step %d", i+1)
			}
		}
		pterm.Fprintln(w, pterm.Sprintf("%s %2d %-8s %-24s picks=[%s] visible=%d",
			sym.Glyph(s.ModelID), i+1, st.Action, st.Pick,
			strings.Join(model.PickIDs(s.Picks()), " "), len(s.Visible())))
	}
	return nil
}

func report(ctx context.Context, m *session.Manager, s *session.Session, lang catalog.Lang, format string, w io.Writer) error {
	r, err := m.Report(ctx, s, lang)
	if err != nil {
		return err
	}
	return writeReport(w, r, lang, format)
}
