package catalog

// Table is an insertion-ordered, read-only id index built by Resolve.
type Table[T any] struct {
	order []string
	byID  map[string]T
}

func newTable[T any](n int) *Table[T] {
	return &Table[T]{
		order: make([]string, 0, n),
		byID:  make(map[string]T, n),
	}
}

func (t *Table[T]) put(id string, v T) {
	t.order = append(t.order, id)
	t.byID[id] = v
}

// Get returns the entry for id.
func (t *Table[T]) Get(id string) (T, bool) {
	v, ok := t.byID[id]
	return v, ok
}

// Has reports whether id is in the table.
func (t *Table[T]) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// IDs returns every id in table order.
func (t *Table[T]) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Values returns every entry in table order.
func (t *Table[T]) Values() []T {
	out := make([]T, len(t.order))
	for i, id := range t.order {
		out[i] = t.byID[id]
	}
	return out
}

// Len returns the number of entries.
func (t *Table[T]) Len() int { return len(t.order) }
