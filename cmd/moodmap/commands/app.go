package commands

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/builtin"
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/db"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/journal"
	"github.com/teranos/moodmap/logger"
	"github.com/teranos/moodmap/registry"
	"github.com/teranos/moodmap/session"
)

// app is the wiring shared by commands that run models.
type app struct {
	cfg      *am.Config
	catalog  *catalog.Catalog
	tuning   *builtin.Tuning
	registry *registry.Registry
	manager  *session.Manager
	journal  *journal.Store
	db       *sql.DB
	logger   *zap.SugaredLogger
}

// appOptions selects the optional parts of an app.
type appOptions struct {
	// journal opens the session journal so reports are escalated and recorded.
	journal bool
	// initialize loads eager models up front.
	initialize bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newAppWithConfig(ctx, cfg, opts)
}

func newAppWithConfig(ctx context.Context, cfg *am.Config, opts appOptions) (*app, error) {
	log := logger.ComponentLogger("moodmap")

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		catalog: cat,
		tuning:  builtin.NewTuning(cfg.GetSomaticParams()),
		logger:  log,
	}
	a.registry, err = builtin.NewRegistry(cat, builtin.Options{
		Source: catalog.Source(cfg.Catalog.Path),
		Tuning: a.tuning,
		Lazy:   cfg.Registry.Lazy,
	}, log)
	if err != nil {
		return nil, err
	}

	sessOpts := session.Options{
		Policy: cfg.GetEscalationPolicy(),
		Tuning: a.tuning,
	}
	if opts.journal {
		a.db, err = db.OpenWithMigrations(cfg.GetDatabasePath(), log)
		if err != nil {
			return nil, err
		}
		a.journal = journal.NewStore(a.db, log)
		sessOpts.Journal = a.journal
	}

	a.manager, err = session.NewManager(a.registry, cat, sessOpts, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	if opts.initialize {
		ctx, cancel := a.loadContext(ctx)
		defer cancel()
		if err := a.registry.InitializeAll(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func loadCatalog(cfg *am.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(catalog.Source(cfg.Catalog.Path))
	if err != nil {
		if cfg.Catalog.Path == "" {
			return nil, err
		}
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to load catalog from %s", cfg.Catalog.Path),
			"catalog.path must be a directory holding canonical.yaml and the model overlays",
		)
	}
	return cat, nil
}

// loadContext bounds how long a command waits for a model to load.
func (a *app) loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := a.cfg.GetLoadTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// open starts a session on modelID, waiting at most the configured load
// timeout for the model.
func (a *app) open(ctx context.Context, modelID string) (*session.Session, error) {
	ctx, cancel := a.loadContext(ctx)
	defer cancel()
	s, err := a.manager.Open(ctx, modelID)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, errors.WithHint(
			errors.Wrapf(err, "model %s did not load in time", modelID),
			"raise registry.load_timeout_seconds in am.toml",
		)
	}
	return s, err
}

// language returns flag when set, otherwise the configured language.
func (a *app) language(flag string) (catalog.Lang, error) {
	if flag != "" {
		return catalog.ParseLang(flag)
	}
	return a.cfg.GetLanguage()
}

func (a *app) Close() {
	a.registry.Dispose()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warnw("Failed to close journal", logger.FieldError, err)
		}
	}
}
