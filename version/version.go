// Package version reports build information set via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	Version        string `json:"version"`
	CommitHash     string `json:"commit_hash"`
	BuildTime      string `json:"build_time"`
	CatalogVersion string `json:"catalog_version,omitempty"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// WithCatalog returns i with the data feed version filled in.
func (i Info) WithCatalog(v string) Info {
	i.CatalogVersion = v
	return i
}

// String returns a human-readable version string
func (i Info) String() string {
	s := fmt.Sprintf("moodmap %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
	if i.CatalogVersion != "" {
		s += fmt.Sprintf(", catalog %s", i.CatalogVersion)
	}
	return s
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
