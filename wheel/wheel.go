// Package wheel implements the hierarchical drill-down model: seven broad
// roots open into branches, branches open into specific leaves, and picking a
// leaf records it and returns to the roots.
package wheel

import (
	"io/fs"
	"slices"

	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/model"
)

// ModelID is the registry id of this model.
const ModelID = "wheel"

// MaxDepth bounds the parent walk in Analyze.
const MaxDepth = 10

var roots = []string{"happy", "sad", "angry", "fearful", "surprised", "disgusted", "bad"}

// Roots returns the first ring in its fixed order. The slice is a copy.
func Roots() []string { return slices.Clone(roots) }

// Kind tags a node as a branch (has children) or a leaf. It is decided at load.
type Kind int

const (
	Branch Kind = iota
	Leaf
)

func (k Kind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "branch"
}

// Overlay is one record of wheel.yaml.
type Overlay struct {
	ID       string   `yaml:"id" json:"id" jsonschema:"required"`
	Level    int      `yaml:"level" json:"level" jsonschema:"minimum=0,maximum=2"`
	Parents  []string `yaml:"parents,omitempty" json:"parents,omitempty"`
	Children []string `yaml:"children,omitempty" json:"children,omitempty"`
}

func (o Overlay) OverlayID() string { return o.ID }

// Node is the wheel view of a canonical emotion.
type Node struct {
	*catalog.CanonicalEmotion
	Level    int
	Parents  []string
	Children []string
	Kind     Kind
}

func (n *Node) EmotionID() string { return n.ID }

func (n *Node) Pick() model.Pick { return model.Pick{ID: n.ID} }

// Model is the emotion wheel.
type Model struct {
	table *catalog.Table[*Node]
}

var _ model.Model[*Node] = (*Model)(nil)

// Load reads wheel.yaml from fsys and resolves it against cat.
func Load(cat *catalog.Catalog, fsys fs.FS) (*Model, error) {
	overlays, err := catalog.ReadOverlay[Overlay](fsys, catalog.WheelFile)
	if err != nil {
		return nil, err
	}
	return New(cat, overlays)
}

// New resolves overlays against cat and validates the tree.
func New(cat *catalog.Catalog, overlays []Overlay) (*Model, error) {
	table, err := catalog.Resolve(cat, overlays, build)
	if err != nil {
		return nil, errors.Wrap(err, "wheel")
	}
	if err := validate(table); err != nil {
		return nil, errors.Wrap(err, "wheel")
	}
	return &Model{table: table}, nil
}

func build(base *catalog.CanonicalEmotion, o Overlay) (*Node, error) {
	if o.Level < 0 || o.Level > 2 {
		return nil, errors.Integrityf("level %d outside 0-2", o.Level)
	}
	kind := Branch
	if len(o.Children) == 0 {
		kind = Leaf
	}
	return &Node{
		CanonicalEmotion: base,
		Level:            o.Level,
		Parents:          o.Parents,
		Children:         o.Children,
		Kind:             kind,
	}, nil
}

func validate(table *catalog.Table[*Node]) error {
	for _, id := range roots {
		n, ok := table.Get(id)
		if !ok {
			return errors.Integrityf("root %q missing", id)
		}
		if n.Level != 0 {
			return errors.Integrityf("root %q at level %d", id, n.Level)
		}
	}
	for _, n := range table.Values() {
		for _, c := range n.Children {
			child, ok := table.Get(c)
			if !ok {
				return errors.Integrityf("%q has unknown child %q", n.ID, c)
			}
			if child.Level != n.Level+1 {
				return errors.Integrityf("child %q at level %d under %q at level %d", c, child.Level, n.ID, n.Level)
			}
		}
		for _, p := range n.Parents {
			parent, ok := table.Get(p)
			if !ok {
				return errors.Integrityf("%q has unknown parent %q", n.ID, p)
			}
			if n.Level != parent.Level+1 {
				return errors.Integrityf("%q at level %d under parent %q at level %d", n.ID, n.Level, p, parent.Level)
			}
		}
	}
	return nil
}

func (m *Model) ID() string { return ModelID }

func (m *Model) Emotions() *catalog.Table[*Node] { return m.table }

// InitialState shows the roots at generation 0.
func (m *Model) InitialState() model.State {
	return model.NewState(0, roots...)
}

// OnSelect drills into a branch, showing exactly its children one generation
// deeper and leaving the selection list untouched. A leaf returns to the
// roots and is recorded by the host.
func (m *Model) OnSelect(n *Node, s model.State, current []*Node) model.Transition[*Node] {
	if n.Kind == Leaf {
		return model.Keep[*Node](m.InitialState())
	}
	next := model.NewState(s.Generation()+1, n.Children...)
	kept := make([]*Node, len(current))
	copy(kept, current)
	return model.Replace(next, kept)
}

// OnDeselect returns to the roots.
func (m *Model) OnDeselect(*Node, model.State) model.Transition[*Node] {
	return model.Keep[*Node](m.InitialState())
}

func (m *Model) OnClear() model.State { return m.InitialState() }

// Analyze passes each selection through with its root-to-node path.
func (m *Model) Analyze(selections []*Node) []model.AnalysisResult {
	results := make([]model.AnalysisResult, 0, len(selections))
	for _, n := range selections {
		r := model.FromCanonical(n.CanonicalEmotion)
		if path := m.path(n, MaxDepth); len(path) > 1 {
			r.HierarchyPath = make([]catalog.Text, len(path))
			for i, p := range path {
				r.HierarchyPath[i] = p.Label
			}
		}
		results = append(results, r)
	}
	return results
}

// path follows first parents up from n, at most depth nodes, and returns
// them root first.
func (m *Model) path(n *Node, depth int) []*Node {
	path := []*Node{n}
	cur := n
	for len(path) < depth && len(cur.Parents) > 0 {
		p, ok := m.table.Get(cur.Parents[0])
		if !ok {
			break
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (m *Model) EmotionSize(string, model.State) model.Size { return model.SizeLarge }

// Engine returns m as a type-erased model.Engine.
func (m *Model) Engine() model.Engine {
	return model.Erase[*Node](m, nil)
}
