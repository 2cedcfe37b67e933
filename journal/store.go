// Package journal persists reported sessions so crisis escalation can look at
// recent history.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/logger"
	"github.com/teranos/moodmap/model"
)

// Entry is one reported session.
type Entry struct {
	ID            string       `json:"id" yaml:"id"`
	ModelID       string       `json:"modelId" yaml:"modelId"`
	Picks         []model.Pick `json:"picks" yaml:"picks"`
	ResultIDs     []string     `json:"resultIds" yaml:"resultIds"`
	Tier          crisis.Tier  `json:"tier" yaml:"tier"`
	EffectiveTier crisis.Tier  `json:"effectiveTier" yaml:"effectiveTier"`
	CreatedAt     time.Time    `json:"createdAt" yaml:"createdAt"`
}

// Store reads and writes entries in the sessions table.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store over a migrated database.
func NewStore(db *sql.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger.OrNop(log).Named("journal")}
}

const selectEntry = `
	SELECT id, model_id, picks, result_ids, tier, effective_tier, created_at
	FROM sessions`

// Save inserts e. Entry ids are unique.
func (s *Store) Save(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("journal entry has no id")
	}
	picks, err := json.Marshal(nonNil(e.Picks))
	if err != nil {
		return errors.Wrap(err, "failed to encode picks")
	}
	results, err := json.Marshal(nonNil(e.ResultIDs))
	if err != nil {
		return errors.Wrap(err, "failed to encode result ids")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, model_id, picks, result_ids, tier, effective_tier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ModelID, string(picks), string(results),
		string(e.Tier), string(e.EffectiveTier), e.CreatedAt.UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save session %s", e.ID)
	}

	s.logger.Debugw("Recorded session",
		logger.FieldSessionID, e.ID,
		logger.FieldModel, e.ModelID,
		logger.FieldTier, e.EffectiveTier,
	)
	return nil
}

// Get returns the entry with id, or an error wrapping errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, errors.Wrapf(errors.ErrNotFound, "session %s", id)
	}
	if err != nil {
		return Entry{}, errors.Wrapf(err, "failed to get session %s", id)
	}
	return e, nil
}

// Since returns entries created at or after t, oldest first.
func (s *Store) Since(ctx context.Context, t time.Time) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+` WHERE created_at >= ? ORDER BY created_at, id`, t.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query sessions")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan session")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Observations returns the classified tier of every session since t. The
// classified tier is used rather than the effective one so an escalation does
// not feed on itself.
func (s *Store) Observations(ctx context.Context, t time.Time) ([]crisis.Observation, error) {
	entries, err := s.Since(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]crisis.Observation, len(entries))
	for i, e := range entries {
		out[i] = crisis.Observation{At: e.CreatedAt, Tier: e.Tier}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e                   Entry
		picks, results      string
		tier, effectiveTier string
	)
	if err := sc.Scan(&e.ID, &e.ModelID, &picks, &results, &tier, &effectiveTier, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(picks), &e.Picks); err != nil {
		return Entry{}, errors.Wrapf(err, "session %s has malformed picks", e.ID)
	}
	if err := json.Unmarshal([]byte(results), &e.ResultIDs); err != nil {
		return Entry{}, errors.Wrapf(err, "session %s has malformed result ids", e.ID)
	}
	var err error
	if e.Tier, err = crisis.ParseTier(tier); err != nil {
		return Entry{}, errors.Wrapf(err, "session %s", e.ID)
	}
	if e.EffectiveTier, err = crisis.ParseTier(effectiveTier); err != nil {
		return Entry{}, errors.Wrapf(err, "session %s", e.ID)
	}
	return e, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
