// Package version provides version information and build metadata for iocify.
//
// Version, Commit and Date are injected at build time:
//
//	-ldflags "-X github.com/dendrascience/iocify/version.Version=v1.0.0 -X github.com/dendrascience/iocify/version.Commit=abc123"
//
// Without them the values fall back to runtime/debug build info, so
// `go install` builds still report the module version and VCS revision.
package version
