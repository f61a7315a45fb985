// Package version holds build metadata injected via ldflags. The service
// logs these fields in its startup line so a deployment is identifiable
// from the first log entry.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
