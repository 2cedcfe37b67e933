package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/dimensional"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/plutchik"
	"github.com/teranos/moodmap/registry"
	"github.com/teranos/moodmap/somatic"
	"github.com/teranos/moodmap/sym"
	"github.com/teranos/moodmap/wheel"
)

// CatalogCmd groups data feed commands.
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: sym.Catalog + " Inspect and validate the emotion data feed",
	Long: sym.Catalog + ` catalog — Inspect and validate the emotion data feed

The data feed is the canonical emotion dictionary plus one overlay file per
model. The embedded feed is used unless catalog.path points at a directory.

Examples:
  moodmap catalog list                  # Models and their load status
  moodmap catalog validate              # Load every model and report problems
  moodmap catalog schema wheel          # JSON Schema for wheel.yaml`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models and the catalog version",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every model and report integrity problems",
	Args:  cobra.NoArgs,
	RunE:  runCatalogValidate,
}

var catalogSchemaCmd = &cobra.Command{
	Use:       "schema [canonical|plutchik|wheel|dimensional|somatic|result]",
	Short:     "Print the JSON Schema of a data feed file or of analysis results",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: SchemaKinds,
	RunE:      runCatalogSchema,
}

func init() {
	CatalogCmd.AddCommand(catalogListCmd)
	CatalogCmd.AddCommand(catalogValidateCmd)
	CatalogCmd.AddCommand(catalogSchemaCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{initialize: true})
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	source := "embedded"
	if a.cfg.Catalog.Path != "" {
		source = a.cfg.Catalog.Path
	}
	pterm.Fprintln(w, pterm.Sprintf("%s catalog %s (%s), %d emotions", sym.Catalog, a.catalog.Version(), source, a.catalog.Len()))
	return modelTable(w, a.registry).Render()
}

func modelTable(w io.Writer, reg *registry.Registry) *pterm.TablePrinter {
	data := [][]string{{"", "Model", "Status", "Lazy", "Emotions", "Description"}}
	for _, id := range reg.IDs() {
		status, _ := reg.Status(id)
		desc, _ := reg.Descriptor(id)
		emotions := "-"
		if engine, err := reg.Lookup(id); err == nil {
			emotions = strconv.Itoa(engine.Info().Emotions)
		}
		data = append(data, []string{
			sym.Glyph(id), id, string(status), strconv.FormatBool(desc.Lazy), emotions, sym.Describe(id),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	failures := validateModels(cmd.Context(), a, w)
	if failures > 0 {
		return errors.Newf("%d of %d models failed to load", failures, len(a.registry.IDs()))
	}
	pterm.Success.WithWriter(w).Printf("Catalog %s is valid: %d emotions, %d models\n",
		a.catalog.Version(), a.catalog.Len(), len(a.registry.IDs()))
	return nil
}

// validateModels acquires every model, lazy ones included, and prints each
// failure with its hints. It returns the number of failures.
func validateModels(ctx context.Context, a *app, w io.Writer) int {
	failures := 0
	for _, id := range a.registry.IDs() {
		loadCtx, cancel := a.loadContext(ctx)
		engine, err := a.registry.Acquire(loadCtx, id)
		cancel()
		if err != nil {
			failures++
			pterm.Error.WithWriter(w).Printf("%s %s: %v\n", sym.Glyph(id), id, err)
			for _, hint := range errors.GetAllHints(err) {
				pterm.Fprintln(w, pterm.Gray("  hint: "+hint))
			}
			continue
		}
		pterm.Fprintln(w, pterm.Sprintf("%s %s: %d emotions", sym.Glyph(id), id, engine.Info().Emotions))
	}
	return failures
}

// SchemaKinds are the documents catalog schema can describe.
var SchemaKinds = []string{"canonical", plutchik.ModelID, wheel.ModelID, dimensional.ModelID, somatic.ModelID, "result"}

var schemaSubjects = map[string]any{
	"canonical":         &catalog.Document{},
	plutchik.ModelID:    &catalog.OverlayDocument[plutchik.Overlay]{},
	wheel.ModelID:       &catalog.OverlayDocument[wheel.Overlay]{},
	dimensional.ModelID: &catalog.OverlayDocument[dimensional.Overlay]{},
	somatic.ModelID:     &catalog.OverlayDocument[somatic.Overlay]{},
	"result":            &model.AnalysisResult{},
}

// Schema returns the JSON Schema for kind.
func Schema(kind string) (*jsonschema.Schema, error) {
	subject, ok := schemaSubjects[kind]
	if !ok {
		kinds := append([]string(nil), SchemaKinds...)
		sort.Strings(kinds)
		return nil, errors.WithHint(
			errors.Newf("no schema for %q", kind),
			fmt.Sprintf("choose one of %v", kinds),
		)
	}
	r := &jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(subject)
	s.Title = fmt.Sprintf("moodmap %s", kind)
	return s, nil
}

func runCatalogSchema(cmd *cobra.Command, args []string) error {
	kind := "canonical"
	if len(args) == 1 {
		kind = args[0]
	}
	s, err := Schema(kind)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal schema")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
