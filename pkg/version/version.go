// Package version provides the pyedit tool version.
package version

// Version is the pyedit tool version.
// Can be overridden at build time with:
//
//	go build -ldflags "-X github.com/pyedit/pyedit/pkg/version.Version=2.0.1"
var Version = "dev"
