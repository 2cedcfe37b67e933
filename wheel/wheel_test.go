package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

func loadModel(t *testing.T) *Model {
	t.Helper()
	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)
	m, err := Load(cat, catalog.Embedded())
	require.NoError(t, err)
	return m
}

func node(t *testing.T, m *Model, id string) *Node {
	t.Helper()
	n, ok := m.Emotions().Get(id)
	require.True(t, ok, "missing %q", id)
	return n
}

func TestInitialState(t *testing.T) {
	m := loadModel(t)
	s := m.InitialState()

	assert.Equal(t, Roots(), s.VisibleIDs())
	assert.Equal(t, 0, s.Generation())
	assert.Equal(t, model.SizeLarge, m.EmotionSize("happy", s))
}

func TestDrillDown(t *testing.T) {
	m := loadModel(t)
	current := []*Node{node(t, m, "gratitude")}

	tr := m.OnSelect(node(t, m, "happy"), m.InitialState(), current)
	require.True(t, tr.ReplaceSelections, "drilling into a branch must not record it")
	assert.Equal(t, current, tr.Selections)
	assert.Equal(t, []string{"content", "proud", "thankful"}, tr.State.VisibleIDs())
	assert.Equal(t, 1, tr.State.Generation())

	tr = m.OnSelect(node(t, m, "content"), tr.State, current)
	assert.Equal(t, []string{"joy", "free"}, tr.State.VisibleIDs())
	assert.Equal(t, 2, tr.State.Generation())
	g, _ := tr.State.Visible("joy")
	assert.Equal(t, 2, g)
}

func TestRootsIsACopy(t *testing.T) {
	m := loadModel(t)

	r := Roots()
	require.Len(t, r, 7)
	r[0], r[1] = r[1], r[0]
	_ = append(r[:3], "ghost")

	want := []string{"happy", "sad", "angry", "fearful", "surprised", "disgusted", "bad"}
	assert.Equal(t, want, Roots())
	assert.Equal(t, want, m.InitialState().VisibleIDs())
}

func TestLeafReturnsToRoots(t *testing.T) {
	m := loadModel(t)
	s := m.OnSelect(node(t, m, "happy"), m.InitialState(), nil).State
	s = m.OnSelect(node(t, m, "content"), s, nil).State

	tr := m.OnSelect(node(t, m, "joy"), s, nil)
	assert.False(t, tr.ReplaceSelections)
	assert.True(t, tr.State.Equal(m.InitialState()))
}

func TestOnDeselectReturnsToRoots(t *testing.T) {
	m := loadModel(t)
	s := m.OnSelect(node(t, m, "sad"), m.InitialState(), nil).State

	tr := m.OnDeselect(node(t, m, "hopeless"), s)
	assert.False(t, tr.ReplaceSelections)
	assert.True(t, tr.State.Equal(m.InitialState()))
}

func TestEngineSelectionList(t *testing.T) {
	eng := loadModel(t).Engine()

	s := eng.InitialState()
	var picks []model.Pick
	var err error

	s, picks, err = eng.Select(model.Pick{ID: "sad"}, s, picks)
	require.NoError(t, err)
	assert.Empty(t, picks)

	s, picks, err = eng.Select(model.Pick{ID: "lonely"}, s, picks)
	require.NoError(t, err)
	assert.Empty(t, picks)

	s, picks, err = eng.Select(model.Pick{ID: "isolated"}, s, picks)
	require.NoError(t, err)
	assert.Equal(t, []string{"isolated"}, model.PickIDs(picks))
	assert.Equal(t, Roots(), s.VisibleIDs())

	_, picks, err = eng.Deselect(model.Pick{ID: "isolated"}, s, picks)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestAnalyzeHierarchyPath(t *testing.T) {
	m := loadModel(t)

	results := m.Analyze([]*Node{node(t, m, "joy"), node(t, m, "happy"), node(t, m, "lonely")})
	require.Len(t, results, 3)

	assert.Equal(t, []string{"Happy", "Content", "Joy"}, catalog.Labels(results[0].HierarchyPath, catalog.EN))
	assert.Equal(t, []string{"Felice", "Appagato", "Gioia"}, catalog.Labels(results[0].HierarchyPath, catalog.IT))
	assert.Nil(t, results[1].HierarchyPath, "a root has no path")
	assert.Equal(t, []string{"Sad", "Lonely"}, catalog.Labels(results[2].HierarchyPath, catalog.EN))
}

func TestAnalyzeEmpty(t *testing.T) {
	m := loadModel(t)
	got := m.Analyze(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPathDepthGuard(t *testing.T) {
	m := loadModel(t)
	path := m.path(node(t, m, "joy"), 2)
	require.Len(t, path, 2)
	assert.Equal(t, "content", path[0].ID)
	assert.Equal(t, "joy", path[1].ID)
}

func TestKinds(t *testing.T) {
	m := loadModel(t)
	assert.Equal(t, Branch, node(t, m, "happy").Kind)
	assert.Equal(t, Branch, node(t, m, "despair").Kind)
	assert.Equal(t, Leaf, node(t, m, "hopeless").Kind)
	assert.Equal(t, "leaf", Leaf.String())

	for _, n := range m.Emotions().Values() {
		if n.Kind == Leaf {
			assert.Equal(t, 2, n.Level, n.ID)
		}
	}
}

func TestIntegrity(t *testing.T) {
	cat, err := catalog.Load(catalog.Embedded())
	require.NoError(t, err)

	valid := func() []Overlay {
		var out []Overlay
		for _, r := range Roots() {
			out = append(out, Overlay{ID: r, Level: 0})
		}
		out[0].Children = []string{"content"}
		return append(out,
			Overlay{ID: "content", Level: 1, Parents: []string{"happy"}, Children: []string{"joy"}},
			Overlay{ID: "joy", Level: 2, Parents: []string{"content"}},
		)
	}
	_, err = New(cat, valid())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]Overlay) []Overlay
	}{
		{"missing root", func(o []Overlay) []Overlay { return o[1:] }},
		{"root below level 0", func(o []Overlay) []Overlay { o[1].Level = 1; return o }},
		{"unknown child", func(o []Overlay) []Overlay { o[len(o)-2].Children = []string{"free"}; return o }},
		{"unknown parent", func(o []Overlay) []Overlay { o[len(o)-1].Parents = []string{"proud"}; return o }},
		{"level skip", func(o []Overlay) []Overlay { o[len(o)-2].Level = 0; return o }},
		{"level out of range", func(o []Overlay) []Overlay { o[len(o)-1].Level = 3; return o }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(cat, tt.mutate(valid()))
			require.Error(t, err)
			assert.True(t, errors.IsIntegrity(err), "got %v", err)
		})
	}
}
