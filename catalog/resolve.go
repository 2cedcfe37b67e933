package catalog

import (
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/teranos/moodmap/errors"
)

// Overlay is a per-model record keyed by a canonical id.
type Overlay interface {
	OverlayID() string
}

// OverlayDocument is the on-disk shape of a model overlay file.
type OverlayDocument[O any] struct {
	Model   string `yaml:"model" json:"model" jsonschema:"required"`
	Entries []O    `yaml:"entries" json:"entries" jsonschema:"required"`
}

// ReadOverlay decodes the overlay file name from fsys.
func ReadOverlay[O any](fsys fs.FS, name string) ([]O, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read overlay %s", name)
	}
	var doc OverlayDocument[O]
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Integrityf("failed to decode overlay %s: %v", name, err)
	}
	return doc.Entries, nil
}

// Resolve joins overlays onto the canonical dictionary. Each overlay id must
// name a canonical record and appear at most once; build merges the two into
// the model's view. The table keeps overlay order.
func Resolve[O Overlay, T any](cat *Catalog, overlays []O, build func(base *CanonicalEmotion, o O) (T, error)) (*Table[T], error) {
	t := newTable[T](len(overlays))
	for _, o := range overlays {
		id := o.OverlayID()
		base, ok := cat.Get(id)
		if !ok {
			return nil, errors.Integrityf("overlay references unknown id %q", id)
		}
		if _, dup := t.byID[id]; dup {
			return nil, errors.Integrityf("overlay lists id %q twice", id)
		}
		v, err := build(base, o)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %q", id)
		}
		t.put(id, v)
	}
	return t, nil
}
