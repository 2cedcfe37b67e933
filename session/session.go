// Package session drives one user's pass through an emotion model and turns
// the outcome into a report.
//
// A Session is owned by a single caller and is not safe for concurrent use.
// The Manager that opens sessions is shared.
package session

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

// Session is the mutable host state around a model: the presentation state
// and the current selection list.
type Session struct {
	ID        string
	ModelID   string
	StartedAt time.Time

	engine model.Engine
	state  model.State
	picks  []model.Pick
}

// New starts a session on engine.
func New(engine model.Engine) *Session {
	return &Session{
		ID:        uuid.New().String(),
		ModelID:   engine.ID(),
		StartedAt: time.Now().UTC(),
		engine:    engine,
		state:     engine.InitialState(),
	}
}

// Engine returns the model the session runs on.
func (s *Session) Engine() model.Engine { return s.engine }

// State returns the current presentation state.
func (s *Session) State() model.State { return s.state }

// Picks returns a copy of the current selection list.
func (s *Session) Picks() []model.Pick { return slices.Clone(s.picks) }

// Visible returns the ids the user can currently pick from.
func (s *Session) Visible() []string { return s.state.VisibleIDs() }

// Size returns the presentation size of a visible id.
func (s *Session) Size(id string) model.Size { return s.engine.Size(id, s.state) }

// Select applies the model's select transition. On error the session is
// unchanged.
func (s *Session) Select(p model.Pick) error {
	state, picks, err := s.engine.Select(p, s.state, s.picks)
	if err != nil {
		return errors.Wrapf(err, "select %s", p)
	}
	s.state, s.picks = state, picks
	return nil
}

// Deselect applies the model's deselect transition. On error the session is
// unchanged.
func (s *Session) Deselect(p model.Pick) error {
	state, picks, err := s.engine.Deselect(p, s.state, s.picks)
	if err != nil {
		return errors.Wrapf(err, "deselect %s", p)
	}
	s.state, s.picks = state, picks
	return nil
}

// Clear restores the initial state and empties the selection list.
func (s *Session) Clear() {
	s.state = s.engine.Clear()
	s.picks = nil
}

// Analyze runs the model over the current selection list.
func (s *Session) Analyze() ([]model.AnalysisResult, error) {
	return s.engine.Analyze(s.picks)
}

// Snapshot is the serializable form of a session.
type Snapshot struct {
	ID        string       `json:"id"`
	ModelID   string       `json:"modelId"`
	StartedAt time.Time    `json:"startedAt"`
	State     model.State  `json:"state"`
	Picks     []model.Pick `json:"picks"`
}

// Snapshot captures the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		ModelID:   s.ModelID,
		StartedAt: s.StartedAt,
		State:     s.state,
		Picks:     s.Picks(),
	}
}

// MarshalJSON encodes the session as its snapshot.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// Restore rebuilds a session from snap on engine. Every pick must resolve in
// the model.
func Restore(engine model.Engine, snap Snapshot) (*Session, error) {
	if snap.ModelID != engine.ID() {
		return nil, errors.Newf("snapshot is for model %s, not %s", snap.ModelID, engine.ID())
	}
	if snap.ID == "" {
		return nil, errors.New("snapshot has no session id")
	}
	if _, err := engine.Analyze(snap.Picks); err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", snap.ID)
	}
	return &Session{
		ID:        snap.ID,
		ModelID:   snap.ModelID,
		StartedAt: snap.StartedAt,
		engine:    engine,
		state:     snap.State,
		picks:     slices.Clone(snap.Picks),
	}, nil
}

// RestoreJSON decodes a snapshot produced by Session.MarshalJSON and restores
// it on engine.
func RestoreJSON(engine model.Engine, data []byte) (*Session, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to decode session snapshot")
	}
	return Restore(engine, snap)
}
