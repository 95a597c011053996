// Package version holds build metadata for both binaries, injected via ldflags:
//
//	-X github.com/kailas-cloud/pdfctx/internal/version.Version=v0.3.0
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata as a single banner token.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
