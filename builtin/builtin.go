// Package builtin registers the four bundled emotion models with a registry.
package builtin

import (
	"context"
	"io/fs"
	"slices"

	"go.uber.org/zap"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/dimensional"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/plutchik"
	"github.com/teranos/moodmap/registry"
	"github.com/teranos/moodmap/somatic"
	"github.com/teranos/moodmap/wheel"
)

const (
	// Version is the version of the bundled models.
	Version = "1.0.0"

	// CatalogConstraint is the range of data feed versions the bundled models
	// understand.
	CatalogConstraint = "^1.0.0"
)

// ModelIDs lists the bundled models in registration order.
var ModelIDs = []string{plutchik.ModelID, wheel.ModelID, dimensional.ModelID, somatic.ModelID}

// DefaultLazy lists the models loaded on first use unless configured otherwise.
var DefaultLazy = []string{somatic.ModelID}

// Options configures the bundled models.
type Options struct {
	// Source holds the overlay files. Nil means the embedded feed.
	Source fs.FS

	// Tuning supplies somatic params at load time. Nil means the defaults.
	Tuning *Tuning

	// Lazy names models to load on first use. Nil means DefaultLazy.
	Lazy []string
}

// Descriptors returns registry descriptors for the bundled models, resolved
// against cat.
func Descriptors(cat *catalog.Catalog, opts Options) ([]registry.Descriptor, error) {
	src := opts.Source
	if src == nil {
		src = catalog.Embedded()
	}
	lazy := opts.Lazy
	if lazy == nil {
		lazy = DefaultLazy
	}
	for _, id := range lazy {
		if !slices.Contains(ModelIDs, id) {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrUnknownModel, "lazy model %q", id),
				"registry.lazy may only name plutchik, wheel, dimensional or somatic",
			)
		}
	}

	loaders := map[string]registry.LoadFunc{
		plutchik.ModelID: func(context.Context) (model.Engine, error) {
			m, err := plutchik.Load(cat, src)
			if err != nil {
				return nil, err
			}
			return m.Engine(), nil
		},
		wheel.ModelID: func(context.Context) (model.Engine, error) {
			m, err := wheel.Load(cat, src)
			if err != nil {
				return nil, err
			}
			return m.Engine(), nil
		},
		dimensional.ModelID: func(context.Context) (model.Engine, error) {
			m, err := dimensional.Load(cat, src)
			if err != nil {
				return nil, err
			}
			return m.Engine(), nil
		},
		somatic.ModelID: func(context.Context) (model.Engine, error) {
			m, err := somatic.Load(cat, src, opts.Tuning.Somatic())
			if err != nil {
				return nil, err
			}
			return m.Engine(), nil
		},
	}

	out := make([]registry.Descriptor, 0, len(ModelIDs))
	for _, id := range ModelIDs {
		out = append(out, registry.Descriptor{
			ID:                id,
			Version:           Version,
			CatalogConstraint: CatalogConstraint,
			Lazy:              slices.Contains(lazy, id),
			Load:              loaders[id],
		})
	}
	return out, nil
}

// Register adds the bundled models to r.
func Register(r *registry.Registry, cat *catalog.Catalog, opts Options) error {
	descs, err := Descriptors(cat, opts)
	if err != nil {
		return err
	}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry creates a registry for cat with the bundled models registered.
func NewRegistry(cat *catalog.Catalog, opts Options, log *zap.SugaredLogger) (*registry.Registry, error) {
	r := registry.NewRegistry(cat.Version(), log)
	if err := Register(r, cat, opts); err != nil {
		return nil, err
	}
	return r, nil
}
