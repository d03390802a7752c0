package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	defer func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	}()

	assert.Equal(t, "dev (unknown) built unknown", String())

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2024-01-15T10:30:00Z"
	assert.Equal(t, "1.2.3 (abc1234) built 2024-01-15T10:30:00Z", String())
}
