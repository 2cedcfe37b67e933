package catalog

import (
	"embed"
	"io/fs"
	"os"
)

// Overlay file names inside a data feed.
const (
	PlutchikFile    = "plutchik.yaml"
	WheelFile       = "wheel.yaml"
	DimensionalFile = "dimensional.yaml"
	SomaticFile     = "somatic.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the compiled-in data feed.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// Only fails on a malformed path literal.
		panic(err)
	}
	return sub
}

// Source returns os.DirFS(path) when path is set, otherwise the embedded feed.
func Source(path string) fs.FS {
	if path == "" {
		return Embedded()
	}
	return os.DirFS(path)
}
