// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/jigsaw/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/jigsaw/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/jigsaw/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with "go install module@version" carry no ldflags; for
// those the module version recorded by the toolchain is used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/matzehuels/jigsaw/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/matzehuels/jigsaw/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/matzehuels/jigsaw/pkg/buildinfo.Date=...
	Date = "unknown"
)

// Info is the build information in serializable form.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the build information, falling back to the module version
// when no version was set at link time.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// String returns the formatted build information.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template string for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
