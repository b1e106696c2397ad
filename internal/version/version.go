// Package version identifies a wobkit build for the --version flag.
package version

// Overridden at release time via -ldflags; a plain `go build` reports a
// dev build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, git commit and build date.
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}
