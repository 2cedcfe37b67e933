package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/moodmap/am"
	"github.com/teranos/moodmap/builtin"
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/crisis"
	"github.com/teranos/moodmap/errors"
	qtesting "github.com/teranos/moodmap/internal/testing"
	"github.com/teranos/moodmap/journal"
	"github.com/teranos/moodmap/model"
	"github.com/teranos/moodmap/registry"
	"github.com/teranos/moodmap/somatic"
	"github.com/teranos/moodmap/wheel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	registry *registry.Registry
	tuning   *builtin.Tuning
	manager  *Manager
}

func setup(t *testing.T, j Journal) fixture {
	t.Helper()
	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)

	tuning := builtin.NewTuning(somatic.DefaultParams())
	reg, err := builtin.NewRegistry(cat, builtin.Options{Tuning: tuning}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	require.NoError(t, reg.InitializeAll(context.Background()))

	mgr, err := NewManager(reg, cat, Options{
		Policy:  crisis.DefaultPolicy(),
		Journal: j,
		Tuning:  tuning,
		Now:     func() time.Time { return now },
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return fixture{registry: reg, tuning: tuning, manager: mgr}
}

func open(t *testing.T, f fixture, modelID string) *Session {
	t.Helper()
	s, err := f.manager.Open(context.Background(), modelID)
	require.NoError(t, err)
	return s
}

func selectAll(t *testing.T, s *Session, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, s.Select(model.Pick{ID: id}), id)
	}
}

func TestWheelLeafSelectAppendsOnePick(t *testing.T) {
	s := open(t, setup(t, nil), wheel.ModelID)

	selectAll(t, s, "sad", "despair")
	require.Empty(t, s.Picks())

	require.NoError(t, s.Select(model.Pick{ID: "hopeless"}))
	assert.Equal(t, []string{"hopeless"}, model.PickIDs(s.Picks()))
	assert.Equal(t, wheel.Roots(), s.Visible())
}

func TestWheelDrillDownLeavesPicksUnchanged(t *testing.T) {
	s := open(t, setup(t, nil), wheel.ModelID)
	selectAll(t, s, "happy", "content", "joy")
	before := s.Picks()

	require.NoError(t, s.Select(model.Pick{ID: "sad"}))
	assert.Equal(t, before, s.Picks())
	assert.Equal(t, []string{"lonely", "despair", "hurt"}, s.Visible())
	assert.Equal(t, 1, s.State().Generation())
}

func TestSelectErrorLeavesSessionUnchanged(t *testing.T) {
	s := open(t, setup(t, nil), wheel.ModelID)
	selectAll(t, s, "happy")
	state, picks := s.State(), s.Picks()

	err := s.Select(model.Pick{ID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.IsUnknown(err))
	assert.True(t, state.Equal(s.State()))
	assert.Equal(t, picks, s.Picks())
}

func TestPicksAreCopied(t *testing.T) {
	s := open(t, setup(t, nil), wheel.ModelID)
	selectAll(t, s, "sad", "lonely", "isolated")

	picks := s.Picks()
	picks[0].ID = "mutated"
	assert.Equal(t, []string{"isolated"}, model.PickIDs(s.Picks()))
}

func TestDeselectAndClear(t *testing.T) {
	s := open(t, setup(t, nil), wheel.ModelID)
	selectAll(t, s, "sad", "lonely", "isolated", "happy", "content", "joy")
	require.Len(t, s.Picks(), 2)

	require.NoError(t, s.Deselect(model.Pick{ID: "isolated"}))
	assert.Equal(t, []string{"joy"}, model.PickIDs(s.Picks()))

	selectAll(t, s, "sad")
	s.Clear()
	assert.Empty(t, s.Picks())
	assert.True(t, s.State().Equal(s.Engine().InitialState()))
}

func TestSnapshotRestore(t *testing.T) {
	f := setup(t, nil)
	s := open(t, f, wheel.ModelID)
	selectAll(t, s, "sad", "lonely", "isolated", "fearful")

	data, err := json.Marshal(s)
	require.NoError(t, err)

	restored, err := RestoreJSON(s.Engine(), data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, s.Picks(), restored.Picks())
	assert.True(t, s.State().Equal(restored.State()))
	assert.True(t, s.StartedAt.Equal(restored.StartedAt))

	resumed, err := f.manager.Resume(context.Background(), s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, s.Visible(), resumed.Visible())

	plutchikEngine, err := f.registry.Acquire(context.Background(), "plutchik")
	require.NoError(t, err)
	_, err = Restore(plutchikEngine, s.Snapshot())
	assert.Error(t, err, "snapshot bound to another model")

	bad := s.Snapshot()
	bad.Picks = []model.Pick{{ID: "ghost"}}
	_, err = Restore(s.Engine(), bad)
	assert.Error(t, err)

	_, err = RestoreJSON(s.Engine(), []byte("{"))
	assert.Error(t, err)
}

func TestOpenUnknownModel(t *testing.T) {
	_, err := setup(t, nil).manager.Open(context.Background(), "tarot")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownModel))
}

func TestReportWithoutJournal(t *testing.T) {
	f := setup(t, nil)
	s := open(t, f, wheel.ModelID)
	selectAll(t, s, "sad", "despair", "hopeless")

	r, err := f.manager.Report(context.Background(), s, catalog.EN)
	require.NoError(t, err)
	assert.Equal(t, s.ID, r.SessionID)
	assert.Equal(t, wheel.ModelID, r.ModelID)
	assert.Equal(t, []string{"hopeless"}, model.ResultIDs(r.Results))
	assert.Equal(t, crisis.Tier1, r.Tier)
	assert.Equal(t, crisis.Tier1, r.EffectiveTier)
	assert.NotEmpty(t, r.Narrative)
	assert.False(t, r.Recorded)
	assert.Equal(t, now, r.At)
}

func TestReportEmptySession(t *testing.T) {
	f := setup(t, nil)
	r, err := f.manager.Report(context.Background(), open(t, f, wheel.ModelID), catalog.EN)
	require.NoError(t, err)
	assert.Empty(t, r.Results)
	assert.Equal(t, crisis.None, r.Tier)
	assert.Equal(t, "", r.Narrative)
}

func TestReportEscalatesFromJournal(t *testing.T) {
	ctx := context.Background()
	store := journal.NewStore(qtesting.CreateTestDB(t), nil)
	day := 24 * time.Hour
	for i, at := range []time.Time{now.Add(-1 * day), now.Add(-2 * day), now.Add(-3 * day), now.Add(-30 * day)} {
		require.NoError(t, store.Save(ctx, journal.Entry{
			ID:            string(rune('a' + i)),
			ModelID:       wheel.ModelID,
			Tier:          crisis.Tier2,
			EffectiveTier: crisis.Tier2,
			CreatedAt:     at,
		}))
	}

	f := setup(t, store)
	s := open(t, f, wheel.ModelID)
	selectAll(t, s, "sad", "despair", "hopeless")

	r, err := f.manager.Report(ctx, s, catalog.EN)
	require.NoError(t, err)
	assert.Equal(t, crisis.Tier1, r.Tier)
	assert.Equal(t, crisis.Tier2, r.EffectiveTier)
	assert.True(t, r.Recorded)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, crisis.Tier1, got.Tier, "the journal keeps the classified tier")
	assert.Equal(t, crisis.Tier2, got.EffectiveTier)
	assert.Equal(t, []string{"hopeless"}, got.ResultIDs)
}

func TestReportSkipsEscalationWhenNotDistressed(t *testing.T) {
	j := &fakeJournal{obsErr: errors.New("should not be called")}
	f := setup(t, j)
	s := open(t, f, wheel.ModelID)
	selectAll(t, s, "happy", "content", "joy")

	r, err := f.manager.Report(context.Background(), s, catalog.EN)
	require.NoError(t, err)
	assert.Equal(t, crisis.None, r.EffectiveTier)
	assert.Len(t, j.saved, 1)
}

func TestReportJournalErrors(t *testing.T) {
	s := func(f fixture) *Session {
		s := open(t, f, wheel.ModelID)
		selectAll(t, s, "sad", "despair", "hopeless")
		return s
	}

	f := setup(t, &fakeJournal{obsErr: errors.New("disk gone")})
	_, err := f.manager.Report(context.Background(), s(f), catalog.EN)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session history")

	f = setup(t, &fakeJournal{saveErr: errors.New("disk full")})
	r, err := f.manager.Report(context.Background(), s(f), catalog.EN)
	require.Error(t, err)
	assert.False(t, r.Recorded)
	assert.NotEmpty(t, r.Narrative, "the report survives a failed save")
}

func TestApplyConfig(t *testing.T) {
	f := setup(t, nil)
	_, err := f.registry.Acquire(context.Background(), somatic.ModelID)
	require.NoError(t, err)

	v := viper.New()
	am.SetDefaults(v)
	cfg, err := am.LoadWithViper(v)
	require.NoError(t, err)

	require.NoError(t, f.manager.ApplyConfig(cfg))
	status, _ := f.registry.Status(somatic.ModelID)
	assert.Equal(t, registry.StatusReady, status, "unchanged params keep the engine")

	cfg.Somatic.MaxResults = 2
	cfg.Crisis.EscalationWindowDays = 0
	require.NoError(t, f.manager.ApplyConfig(cfg))

	status, _ = f.registry.Status(somatic.ModelID)
	assert.Equal(t, registry.StatusPending, status)
	assert.Equal(t, 2, f.tuning.Somatic().MaxResults)
	assert.Equal(t, time.Duration(0), f.manager.Policy().Window)

	cfg.Somatic.MaxResults = 0
	assert.Error(t, f.manager.ApplyConfig(cfg))
	assert.Equal(t, 2, f.tuning.Somatic().MaxResults)
}

type fakeJournal struct {
	saved   []journal.Entry
	obsErr  error
	saveErr error
}

func (j *fakeJournal) Save(_ context.Context, e journal.Entry) error {
	if j.saveErr != nil {
		return j.saveErr
	}
	j.saved = append(j.saved, e)
	return nil
}

func (j *fakeJournal) Observations(context.Context, time.Time) ([]crisis.Observation, error) {
	return nil, j.obsErr
}
