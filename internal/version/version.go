// Package version exposes build metadata set through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/sartorproj/tsdeck/internal/version.Version=v0.3.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("tsdeck %s (commit %s, built %s, %s)", Version, Commit, BuildDate, runtime.Version())
}
