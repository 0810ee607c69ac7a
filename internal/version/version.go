// Package version holds build metadata injected with -ldflags.
package version

// Version is overridden at link time: -X github.com/bnema/acs/internal/version.Version=v1.2.3
var Version = "dev"
