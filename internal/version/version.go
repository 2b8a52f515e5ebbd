// Package version exposes the build metadata stamped into the binary.
package version

import "fmt"

// Stamped at release time via -ldflags; source builds keep the defaults.
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String formats the version line printed by the CLI. Releases are
// identified by commit, not semver.
func String() string {
	return fmt.Sprintf("caseflow dev (commit: %s, built: %s)", shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
