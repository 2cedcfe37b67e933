package builtin

import (
	"sync"

	"github.com/teranos/moodmap/somatic"
)

// Tuning holds the somatic scoring params the somatic loader reads. It may be
// updated while the registry is in use; engines already loaded keep the params
// they were built with until they are disposed.
type Tuning struct {
	mu      sync.RWMutex
	somatic somatic.Params
}

// NewTuning creates a Tuning starting at p.
func NewTuning(p somatic.Params) *Tuning {
	return &Tuning{somatic: p}
}

// Somatic returns the current somatic params. A nil Tuning yields the defaults.
func (t *Tuning) Somatic() somatic.Params {
	if t == nil {
		return somatic.DefaultParams()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.somatic
}

// SetSomatic replaces the somatic params and reports whether they changed.
func (t *Tuning) SetSomatic(p somatic.Params) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.somatic == p {
		return false
	}
	t.somatic = p
	return true
}
