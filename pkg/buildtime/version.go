package buildtime

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

//go:embed revision
var revision string

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
}

// version string when this nauta-gui has been built.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

// VersionString is the version and revision, like "v1.0.0 (commit: 0123abc)".
func VersionString() string {
	return version + " (commit: " + revision + ")"
}
