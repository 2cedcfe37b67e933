package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, runtime.GOOS)
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2026-01-01"}
	assert.Equal(t, "moodmap 1.2.0 (commit 0123456, built 2026-01-01)", info.String())
	assert.Equal(t, "moodmap 1.2.0 (commit 0123456, built 2026-01-01), catalog 1.4.0", info.WithCatalog("1.4.0").String())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
