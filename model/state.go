package model

import (
	"encoding/json"
)

// State is the visible set of a model session: an insertion-ordered map of
// emotion id to the generation it became visible in, plus the current
// generation. State is a value; every builder returns a new State and never
// touches the receiver.
type State struct {
	ids        []string
	gens       map[string]int
	generation int
}

// NewState returns a state at generation with ids visible at that generation.
// Duplicate ids keep their first position.
func NewState(generation int, ids ...string) State {
	s := State{
		ids:        make([]string, 0, len(ids)),
		gens:       make(map[string]int, len(ids)),
		generation: generation,
	}
	for _, id := range ids {
		if _, ok := s.gens[id]; ok {
			continue
		}
		s.ids = append(s.ids, id)
		s.gens[id] = generation
	}
	return s
}

// Generation returns the current generation counter.
func (s State) Generation() int { return s.generation }

// Visible returns the generation id became visible in.
func (s State) Visible(id string) (int, bool) {
	g, ok := s.gens[id]
	return g, ok
}

// IsVisible reports whether id is visible.
func (s State) IsVisible(id string) bool {
	_, ok := s.gens[id]
	return ok
}

// VisibleIDs returns the visible ids in insertion order.
func (s State) VisibleIDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of visible ids.
func (s State) Len() int { return len(s.ids) }

func (s State) clone() State {
	c := State{
		ids:        make([]string, len(s.ids), len(s.ids)+1),
		gens:       make(map[string]int, len(s.gens)+1),
		generation: s.generation,
	}
	copy(c.ids, s.ids)
	for k, v := range s.gens {
		c.gens[k] = v
	}
	return c
}

// With returns a copy where id is visible at gen. An id that is already
// visible keeps its position and takes the new stamp.
func (s State) With(id string, gen int) State {
	c := s.clone()
	if _, ok := c.gens[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.gens[id] = gen
	return c
}

// Without returns a copy where id is not visible.
func (s State) Without(id string) State {
	if _, ok := s.gens[id]; !ok {
		return s
	}
	c := s.clone()
	delete(c.gens, id)
	for i, v := range c.ids {
		if v == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return c
}

// WithGeneration returns a copy with the generation counter set to gen.
func (s State) WithGeneration(gen int) State {
	c := s.clone()
	c.generation = gen
	return c
}

// Equal reports whether both states have the same generation and the same
// visible ids, stamps and order.
func (s State) Equal(o State) bool {
	if s.generation != o.generation || len(s.ids) != len(o.ids) {
		return false
	}
	for i, id := range s.ids {
		if o.ids[i] != id || o.gens[id] != s.gens[id] {
			return false
		}
	}
	return true
}

type visibleEntry struct {
	ID         string `json:"id"`
	Generation int    `json:"generation"`
}

type stateJSON struct {
	Generation int            `json:"generation"`
	Visible    []visibleEntry `json:"visible"`
}

// MarshalJSON encodes the state as an ordered list so hosts can persist it.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{Generation: s.generation, Visible: make([]visibleEntry, len(s.ids))}
	for i, id := range s.ids {
		out.Visible[i] = visibleEntry{ID: id, Generation: s.gens[id]}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a state written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	st := NewState(in.Generation)
	for _, v := range in.Visible {
		if _, ok := st.gens[v.ID]; ok {
			continue
		}
		st.ids = append(st.ids, v.ID)
		st.gens[v.ID] = v.Generation
	}
	*s = st
	return nil
}
