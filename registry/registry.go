// Package registry tracks the emotion models a host can use and loads them on
// demand.
//
// A Registry is an ordinary value owned by the host. Models are registered as
// Descriptors, eager ones are loaded by InitializeAll and lazy ones on their
// first Acquire. Lookup never blocks: a model that is registered but still
// loading reports errors.ErrModelNotReady, which is distinct from
// errors.ErrUnknownModel.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/logger"
	"github.com/teranos/moodmap/model"
)

// Status is the load state of a registered model.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// LoadFunc builds a model's engine. It runs at most once per load cycle and
// is never cancelled by an individual caller.
type LoadFunc func(ctx context.Context) (model.Engine, error)

// Descriptor describes a model to the registry.
type Descriptor struct {
	// ID is the model id, e.g. "plutchik".
	ID string

	// Version is the model's own semver version. Optional.
	Version string

	// CatalogConstraint is a semver constraint on the catalog version
	// (e.g. ">= 1.2, < 2"). Empty accepts any catalog.
	CatalogConstraint string

	// Lazy models are skipped by InitializeAll and loaded on first Acquire.
	Lazy bool

	Load LoadFunc
}

type entry struct {
	desc   Descriptor
	status Status
	engine model.Engine
	err    error
	cycle  int // bumped by Dispose so stale loads are discarded
}

// Registry manages model descriptors and their loaded engines.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	catalog *semver.Version
	group   singleflight.Group
	logger  *zap.SugaredLogger
}

// NewRegistry creates a registry for models built against catalogVersion.
func NewRegistry(catalogVersion *semver.Version, log *zap.SugaredLogger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		catalog: catalogVersion,
		logger:  logger.OrNop(log).Named("registry"),
	}
}

// Register adds a model. Duplicate ids and catalog version mismatches are
// rejected.
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return errors.New("model descriptor has no id")
	}
	if d.Load == nil {
		return errors.Newf("model %s has no load function", d.ID)
	}
	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return errors.Wrapf(err, "model %s has invalid version %q", d.ID, d.Version)
		}
	}
	if err := r.validateCatalog(d); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[d.ID]; exists {
		return errors.Newf("model already registered: %s", d.ID)
	}
	r.entries[d.ID] = &entry{desc: d, status: StatusPending}
	r.order = append(r.order, d.ID)
	r.logger.Debugw("Registered model", logger.FieldModel, d.ID, "lazy", d.Lazy)
	return nil
}

func (r *Registry) validateCatalog(d Descriptor) error {
	if d.CatalogConstraint == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(d.CatalogConstraint)
	if err != nil {
		return errors.Wrapf(err, "invalid catalog constraint %s", d.CatalogConstraint)
	}
	if r.catalog == nil {
		return errors.Newf("model requires catalog %s, but the catalog has no version", d.CatalogConstraint)
	}
	if !constraint.Check(r.catalog) {
		return errors.WithHint(
			errors.Newf("model requires catalog %s, but running %s", d.CatalogConstraint, r.catalog),
			"update the data feed or the model's catalog constraint",
		)
	}
	return nil
}

// IDs returns registered model ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptor returns the descriptor registered under id.
func (r *Registry) Descriptor(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Status reports the load state of id.
func (r *Registry) Status(id string) (Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return "", unknown(id)
	}
	return e.status, nil
}

// Lookup returns the engine for id without blocking. It fails with
// ErrUnknownModel when id is not registered, ErrModelNotReady while the model
// is pending or loading, and the stored load error when loading failed.
func (r *Registry) Lookup(id string) (model.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, unknown(id)
	}
	switch e.status {
	case StatusReady:
		return e.engine, nil
	case StatusFailed:
		return nil, e.err
	default:
		return nil, errors.Wrapf(errors.ErrModelNotReady, "model %s is %s", id, e.status)
	}
}

// Acquire returns the engine for id, loading it if needed. Concurrent callers
// share a single load. When ctx ends first Acquire returns ctx.Err() and the
// load carries on for the other waiters.
func (r *Registry) Acquire(ctx context.Context, id string) (model.Engine, error) {
	engine, err := r.Lookup(id)
	if err == nil {
		return engine, nil
	}
	if !errors.IsNotReady(err) {
		return nil, err
	}

	ch := r.group.DoChan(id, func() (interface{}, error) {
		return r.load(context.WithoutCancel(ctx), id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(model.Engine), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) load(ctx context.Context, id string) (model.Engine, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return nil, unknown(id)
	}
	switch e.status {
	case StatusReady:
		r.mu.Unlock()
		return e.engine, nil
	case StatusFailed:
		r.mu.Unlock()
		return nil, e.err
	}
	e.status = StatusLoading
	cycle := e.cycle
	load := e.desc.Load
	r.mu.Unlock()

	start := time.Now()
	r.logger.Debugw("Loading model", logger.FieldModel, id)

	engine, err := load(ctx)
	if err == nil && engine == nil {
		err = errors.Newf("model %s loader returned no engine", id)
	}
	if err == nil && engine.ID() != id {
		err = errors.Integrityf("model %s loader returned engine %q", id, engine.ID())
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to load model %s", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e.cycle != cycle {
		// Disposed while loading.
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
	if err != nil {
		e.status, e.err = StatusFailed, err
		r.logger.Warnw("Model failed to load", logger.FieldModel, id, logger.FieldError, err)
		return nil, err
	}
	e.status, e.engine = StatusReady, engine
	r.logger.Infow("Model ready",
		logger.FieldModel, id,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return engine, nil
}

// InitializeAll loads every non-lazy model in parallel and returns the first
// load error.
func (r *Registry) InitializeAll(ctx context.Context) error {
	r.mu.RLock()
	var eager []string
	for _, id := range r.order {
		if !r.entries[id].desc.Lazy {
			eager = append(eager, id)
		}
	}
	r.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range eager {
		g.Go(func() error {
			_, err := r.Acquire(gctx, id)
			return err
		})
	}
	return g.Wait()
}

// Dispose drops the loaded engine and stored failure of each id, or of every
// model when no ids are given. Disposed models return to pending and load
// again on their next Acquire. Unknown ids are ignored.
func (r *Registry) Dispose(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(ids) == 0 {
		ids = r.order
	}
	n := 0
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		e.cycle++
		e.status, e.engine, e.err = StatusPending, nil, nil
		n++
	}
	r.logger.Debugw("Disposed models", logger.FieldCount, n)
}

func unknown(id string) error {
	return errors.WithHint(
		errors.Wrapf(errors.ErrUnknownModel, "model %q", id),
		"run `moodmap catalog list` to see available models",
	)
}
