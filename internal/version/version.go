// Package version records the build identity stamped at link time.
package version

// Set via -ldflags at build time.
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
