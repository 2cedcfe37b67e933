package model

import (
	"github.com/teranos/moodmap/catalog"
	"github.com/teranos/moodmap/errors"
	"github.com/teranos/moodmap/sym"
)

// Info describes a loaded model.
type Info struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Glyph    string `json:"glyph"`
	Emotions int    `json:"emotions"`
}

// Engine is a model with its emotion type erased to Pick, so hosts can hold
// models of different types side by side.
type Engine interface {
	ID() string
	Info() Info
	EmotionIDs() []string
	InitialState() State
	// Select applies the model's select transition and the host's default
	// list rule, returning the new state and selection list.
	Select(p Pick, s State, current []Pick) (State, []Pick, error)
	Deselect(p Pick, s State, current []Pick) (State, []Pick, error)
	Clear() State
	Analyze(picks []Pick) ([]AnalysisResult, error)
	Size(id string, s State) Size
	// Unwrap returns the underlying Model[E].
	Unwrap() any
}

// Resolver turns a pick into a model's emotion.
type Resolver[E Emotion] func(Pick) (E, error)

// TableResolver resolves picks by id against a model's table.
func TableResolver[E Emotion](t *catalog.Table[E]) Resolver[E] {
	return func(p Pick) (E, error) {
		e, ok := t.Get(p.ID)
		if !ok {
			var zero E
			return zero, errors.UnknownEmotionf("%q", p.ID)
		}
		return e, nil
	}
}

type erased[E Emotion] struct {
	m       Model[E]
	resolve Resolver[E]
}

// Erase wraps m as an Engine. A nil resolve looks picks up by id in
// m.Emotions().
func Erase[E Emotion](m Model[E], resolve Resolver[E]) Engine {
	if resolve == nil {
		resolve = TableResolver(m.Emotions())
	}
	return &erased[E]{m: m, resolve: resolve}
}

func (x *erased[E]) ID() string { return x.m.ID() }

func (x *erased[E]) Info() Info {
	id := x.m.ID()
	return Info{ID: id, Name: sym.Label(id), Glyph: sym.Glyph(id), Emotions: x.m.Emotions().Len()}
}

func (x *erased[E]) EmotionIDs() []string { return x.m.Emotions().IDs() }

func (x *erased[E]) InitialState() State { return x.m.InitialState() }

func (x *erased[E]) Clear() State { return x.m.OnClear() }

func (x *erased[E]) Size(id string, s State) Size { return x.m.EmotionSize(id, s) }

func (x *erased[E]) Unwrap() any { return x.m }

func (x *erased[E]) resolveAll(picks []Pick) ([]E, error) {
	out := make([]E, 0, len(picks))
	for _, p := range picks {
		e, err := x.resolve(p)
		if err != nil {
			return nil, errors.Wrapf(err, "model %s", x.m.ID())
		}
		out = append(out, e)
	}
	return out, nil
}

func (x *erased[E]) Select(p Pick, s State, current []Pick) (State, []Pick, error) {
	e, err := x.resolve(p)
	if err != nil {
		return s, current, errors.Wrapf(err, "model %s", x.m.ID())
	}
	cur, err := x.resolveAll(current)
	if err != nil {
		return s, current, err
	}
	t := x.m.OnSelect(e, s, cur)
	next := Settle(t, cur, func(c []E) []E { return ApplySelect(c, e) })
	return t.State, picksOf(next), nil
}

func (x *erased[E]) Deselect(p Pick, s State, current []Pick) (State, []Pick, error) {
	e, err := x.resolve(p)
	if err != nil {
		return s, current, errors.Wrapf(err, "model %s", x.m.ID())
	}
	cur, err := x.resolveAll(current)
	if err != nil {
		return s, current, err
	}
	t := x.m.OnDeselect(e, s)
	next := Settle(t, cur, func(c []E) []E { return ApplyDeselect(c, e) })
	return t.State, picksOf(next), nil
}

func (x *erased[E]) Analyze(picks []Pick) ([]AnalysisResult, error) {
	sel, err := x.resolveAll(picks)
	if err != nil {
		return nil, err
	}
	return x.m.Analyze(sel), nil
}

func picksOf[E Emotion](es []E) []Pick {
	out := make([]Pick, len(es))
	for i, e := range es {
		out[i] = e.Pick()
	}
	return out
}
