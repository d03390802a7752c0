// Package version holds build information, set via ldflags:
//
//	go build -ldflags "-X DrawSentinel/internal/version.Version=1.0.0 \
//	                   -X DrawSentinel/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X DrawSentinel/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/server
package version

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
