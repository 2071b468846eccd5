// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent is sent with every Elasticsearch request.
func UserAgent() string {
	return "elasticsearch-mcp/" + Version
}

// String renders the build metadata for the version command.
func String() string {
	return fmt.Sprintf("elasticsearch-mcp %s (commit %s, built %s)", Version, Commit, Date)
}
