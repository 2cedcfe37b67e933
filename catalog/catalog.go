// Package catalog loads the canonical emotion dictionary and resolves the
// per-model overlays against it.
//
// The data feed is a directory of YAML files: canonical.yaml holds every
// emotion's shared fields (label, description, needs, color, distress tier)
// and one overlay per model adds model-specific fields keyed by the same id.
// Any overlay id missing from the canonical dictionary is fatal at load.
package catalog

import (
	"io/fs"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/moodmap/errors"
)

// CanonicalFile is the name of the canonical dictionary inside a data feed.
const CanonicalFile = "canonical.yaml"

// DistressTier marks emotions the crisis classifier pays attention to.
type DistressTier string

const (
	DistressNone  DistressTier = ""
	DistressWatch DistressTier = "watch"
	DistressHigh  DistressTier = "high"
)

func (t DistressTier) valid() bool {
	switch t {
	case DistressNone, DistressWatch, DistressHigh:
		return true
	}
	return false
}

// CanonicalEmotion is the shared record every model view embeds.
// Records are immutable once the catalog is loaded.
type CanonicalEmotion struct {
	ID           string       `yaml:"id" json:"id" jsonschema:"required,pattern=^[a-z][a-z_]*$"`
	Label        Text         `yaml:"label" json:"label" jsonschema:"required"`
	Description  Text         `yaml:"description" json:"description"`
	Needs        TextList     `yaml:"needs,omitempty" json:"needs,omitempty"`
	Color        string       `yaml:"color" json:"color" jsonschema:"required,pattern=^#[0-9A-Fa-f]{6}$"`
	DistressTier DistressTier `yaml:"distressTier,omitempty" json:"distressTier,omitempty" jsonschema:"enum=,enum=watch,enum=high"`
}

// Document is the on-disk shape of canonical.yaml.
type Document struct {
	Version  string             `yaml:"version" json:"version" jsonschema:"required"`
	Emotions []CanonicalEmotion `yaml:"emotions" json:"emotions" jsonschema:"required"`
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Catalog is the loaded canonical dictionary.
type Catalog struct {
	version      *semver.Version
	byID         map[string]*CanonicalEmotion
	order        []string
	highDistress map[string]struct{}
}

// Load reads canonical.yaml from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, CanonicalFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", CanonicalFile)
	}
	return Parse(data)
}

// Parse decodes and validates a canonical dictionary.
func Parse(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Integrityf("failed to decode canonical dictionary: %v", err)
	}
	return FromDocument(doc)
}

// FromDocument validates doc and builds a Catalog from it.
func FromDocument(doc Document) (*Catalog, error) {
	v, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, errors.Integrityf("invalid catalog version %q: %v", doc.Version, err)
	}

	c := &Catalog{
		version:      v,
		byID:         make(map[string]*CanonicalEmotion, len(doc.Emotions)),
		order:        make([]string, 0, len(doc.Emotions)),
		highDistress: make(map[string]struct{}),
	}
	for i := range doc.Emotions {
		e := doc.Emotions[i]
		if e.ID == "" {
			return nil, errors.Integrityf("emotion at index %d has an empty id", i)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, errors.Integrityf("duplicate emotion id %q", e.ID)
		}
		if e.Label.EN == "" {
			return nil, errors.Integrityf("emotion %q has no English label", e.ID)
		}
		if !colorPattern.MatchString(e.Color) {
			return nil, errors.Integrityf("emotion %q has invalid color %q", e.ID, e.Color)
		}
		if !e.DistressTier.valid() {
			return nil, errors.Integrityf("emotion %q has unknown distress tier %q", e.ID, e.DistressTier)
		}
		c.byID[e.ID] = &e
		c.order = append(c.order, e.ID)
		if e.DistressTier == DistressHigh {
			c.highDistress[e.ID] = struct{}{}
		}
	}
	return c, nil
}

// Version returns the data feed version.
func (c *Catalog) Version() *semver.Version { return c.version }

// Get returns the canonical record for id.
func (c *Catalog) Get(id string) (*CanonicalEmotion, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// MustGet returns the canonical record for id or an ErrUnknownEmotion error.
func (c *Catalog) MustGet(id string) (*CanonicalEmotion, error) {
	e, ok := c.byID[id]
	if !ok {
		return nil, errors.UnknownEmotionf("%q is not in the catalog", id)
	}
	return e, nil
}

// IDs returns every canonical id in file order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of canonical emotions.
func (c *Catalog) Len() int { return len(c.order) }

// HighDistress returns the ids tagged distressTier: high. The returned map
// is a copy.
func (c *Catalog) HighDistress() map[string]struct{} {
	out := make(map[string]struct{}, len(c.highDistress))
	for id := range c.highDistress {
		out[id] = struct{}{}
	}
	return out
}

// IsHighDistress reports whether id is tagged distressTier: high.
func (c *Catalog) IsHighDistress(id string) bool {
	_, ok := c.highDistress[id]
	return ok
}
