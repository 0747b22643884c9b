// Package version carries the build fingerprints the release pipeline
// stamps into the binary:
//
//	go build -ldflags "-X cxfront/internal/version.Version=0.2.0 ..."
package version

import "strings"

var (
	// Version is the semantic version of the frontend.
	Version = "0.1.0-dev"

	// GitCommit is the revision the binary was built from, if recorded.
	GitCommit = ""

	// BuildDate is the build timestamp in ISO-8601, if recorded.
	BuildDate = ""
)

// String renders the long form: the version followed by whatever
// fingerprints the build recorded.
func String() string {
	var extra []string
	if GitCommit != "" {
		extra = append(extra, "commit "+GitCommit)
	}
	if BuildDate != "" {
		extra = append(extra, "built "+BuildDate)
	}
	if len(extra) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(extra, ", ") + ")"
}
