package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/builtin"
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/journal"
	"github.com/teranos/moodmap/logger"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/narrative"
	"github.com/teranos/moodmap/registry"
	"github.com/teranos/moodmap/somatic"
)

// Journal stores reported sessions and returns past observations for
// escalation. *journal.Store implements it.
type Journal interface {
	Save(ctx context.Context, e journal.Entry) error
	Observations(ctx context.Context, since time.Time) ([]crisis.Observation, error)
}

// Report is the outcome of a session.
type Report struct {
	SessionID     string                 `json:"sessionId" yaml:"sessionId"`
	ModelID       string                 `json:"modelId" yaml:"modelId"`
	Picks         []model.Pick           `json:"picks" yaml:"picks"`
	Results       []model.AnalysisResult `json:"results" yaml:"results"`
	Tier          crisis.Tier            `json:"tier" yaml:"tier"`
	EffectiveTier crisis.Tier            `json:"effectiveTier" yaml:"effectiveTier"`
	Narrative     string                 `json:"narrative" yaml:"narrative"`
	Recorded      bool                   `json:"recorded" yaml:"recorded"`
	At            time.Time              `json:"at" yaml:"at"`
}

// Options configures a Manager.
type Options struct {
	// Policy is the temporal escalation policy. The zero value disables
	// escalation.
	Policy crisis.Policy

	// Journal is optional. Without one no history is consulted and nothing is
	// recorded.
	Journal Journal

	// Tuning is the somatic tuning the registry's loader reads. Config
	// reloads update it.
	Tuning *builtin.Tuning

	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager opens sessions and produces reports. It is safe for concurrent use.
type Manager struct {
	registry   *registry.Registry
	classifier *crisis.Classifier
	synth      *narrative.Synthesizer
	journal    Journal
	tuning     *builtin.Tuning
	now        func() time.Time
	logger     *zap.SugaredLogger

	mu     sync.RWMutex
	policy crisis.Policy
}

// NewManager creates a Manager over reg for models built on cat.
func NewManager(reg *registry.Registry, cat *catalog.Catalog, opts Options, log *zap.SugaredLogger) (*Manager, error) {
	if reg == nil {
		return nil, errors.New("session manager requires a registry")
	}
	classifier, err := crisis.NewClassifier(cat)
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		registry:   reg,
		classifier: classifier,
		synth:      narrative.New(cat),
		journal:    opts.Journal,
		tuning:     opts.Tuning,
		now:        now,
		logger:     logger.OrNop(log).Named("session"),
		policy:     opts.Policy,
	}, nil
}

// Open acquires modelID from the registry and starts a session on it.
func (m *Manager) Open(ctx context.Context, modelID string) (*Session, error) {
	engine, err := m.registry.Acquire(ctx, modelID)
	if err != nil {
		return nil, err
	}
	s := New(engine)
	m.logger.Debugw("Opened session", logger.FieldSessionID, s.ID, logger.FieldModel, modelID)
	return s, nil
}

// Resume restores a session snapshot on its model.
func (m *Manager) Resume(ctx context.Context, snap Snapshot) (*Session, error) {
	engine, err := m.registry.Acquire(ctx, snap.ModelID)
	if err != nil {
		return nil, err
	}
	return Restore(engine, snap)
}

// Policy returns the current escalation policy.
func (m *Manager) Policy() crisis.Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.policy
}

// Report analyzes s, classifies and escalates the result, writes the
// narrative and records the session when a journal is configured.
func (m *Manager) Report(ctx context.Context, s *Session, lang catalog.Lang) (Report, error) {
	ctx = logger.WithSessionID(ctx, s.ID)
	log := logger.FromContext(ctx, m.logger)

	results, err := s.Analyze()
	if err != nil {
		return Report{}, errors.Wrapf(err, "failed to analyze session %s", s.ID)
	}
	now := m.now()
	ids := model.ResultIDs(results)
	tier := m.classifier.Classify(ids)

	effective, err := m.escalate(ctx, tier, now)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		SessionID:     s.ID,
		ModelID:       s.ModelID,
		Picks:         s.Picks(),
		Results:       results,
		Tier:          tier,
		EffectiveTier: effective,
		Narrative:     m.synth.Synthesize(results, lang),
		At:            now,
	}

	if m.journal != nil {
		err := m.journal.Save(ctx, journal.Entry{
			ID:            s.ID,
			ModelID:       s.ModelID,
			Picks:         r.Picks,
			ResultIDs:     ids,
			Tier:          tier,
			EffectiveTier: effective,
			CreatedAt:     now,
		})
		if err != nil {
			return r, errors.Wrapf(err, "failed to record session %s", s.ID)
		}
		r.Recorded = true
	}

	log.Infow("Session reported",
		logger.FieldModel, s.ModelID,
		logger.FieldCount, len(results),
		logger.FieldTier, effective,
	)
	return r, nil
}

func (m *Manager) escalate(ctx context.Context, tier crisis.Tier, now time.Time) (crisis.Tier, error) {
	p := m.Policy()
	if m.journal == nil || tier == crisis.None || p.Window <= 0 {
		return tier, nil
	}
	history, err := m.journal.Observations(ctx, now.Add(-p.Window))
	if err != nil {
		return tier, errors.Wrap(err, "failed to read session history")
	}
	effective := crisis.Escalate(tier, history, now, p)
	if effective != tier {
		logger.FromContext(ctx, m.logger).Infow("Tier escalated by recent history",
			logger.FieldTier, effective,
			"classified", tier,
			logger.FieldCount, len(history),
		)
	}
	return effective, nil
}

// ApplyConfig updates the escalation policy and somatic tuning from cfg. A
// somatic change disposes the loaded somatic engine so the next session picks
// up the new params. Open sessions keep the engine they started with.
func (m *Manager) ApplyConfig(cfg *am.Config) error {
	params := cfg.GetSomaticParams()
	if err := params.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.policy = cfg.GetEscalationPolicy()
	m.mu.Unlock()

	if m.tuning != nil && m.tuning.SetSomatic(params) {
		m.registry.Dispose(somatic.ModelID)
		m.logger.Infow("Somatic params changed, model will reload", logger.FieldModel, somatic.ModelID)
	}
	return nil
}

// Watch applies every reload seen by cw.
func (m *Manager) Watch(cw *am.ConfigWatcher) {
	cw.OnReload(m.ApplyConfig)
}
