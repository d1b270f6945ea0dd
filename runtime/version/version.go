// Package version executes and returns the version string
// for the currently running process.
package version

import (
	"fmt"
	"time"
)

// The value of these vars are set through linker options.
var gitCommit = "Local build"
var buildDate = "Moments ago"
var buildDateUnix = "0"
var gitTag = "Unknown"

// Version returns the version string of this build.
func Version() string {
	if buildDate == "{DATE}" {
		now := time.Now().Format(time.RFC3339)
		buildDate = now
	}
	if buildDateUnix == "{DATE_UNIX}" {
		buildDateUnix = fmt.Sprintf("%d", time.Now().Unix())
	}
	return fmt.Sprintf("%s/%s. Built at: %s", gitTag, gitCommit, buildDate)
}

// SemanticVersion returns the Major.Minor.Patch version of this build.
func SemanticVersion() string {
	return gitTag
}

// BuildData returns the git tag and commit of the current build.
func BuildData() string {
	return fmt.Sprintf("Lean/%s/%s", gitTag, gitCommit)
}
