// Package version holds the build version, set via -ldflags at release time.
package version

// Version is overridden with -ldflags "-X seedsearch/internal/version.Version=...".
var Version = "dev"
