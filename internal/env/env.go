// Package env reads the CSHIM_* environment variables that tune a build.
// The extraction core never consults these directly; only the build
// orchestration layer does.
package env

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	debugVar     = "CSHIM_DEBUG_BUILD"
	targetDirVar = "CSHIM_TARGET_DIR"
)

// DefaultBuildType is used when no CSHIM_<NAME>_BUILD_TYPE override is set.
const DefaultBuildType = "Release"

func projectVar(project, suffix string) string {
	return "CSHIM_" + strings.ToUpper(project) + "_" + suffix
}

// BuildType returns the build profile for project, honoring the
// CSHIM_<NAME>_BUILD_TYPE override.
func BuildType(project string) string {
	if v := os.Getenv(projectVar(project, "BUILD_TYPE")); v != "" {
		return v
	}
	return DefaultBuildType
}

// BuildLibraries reports whether CSHIM_<NAME>_BUILD_LIBRARIES=1 forces
// building the bundled dependencies even though CMAKE_PREFIX_PATH is set.
func BuildLibraries(project string) bool {
	return os.Getenv(projectVar(project, "BUILD_LIBRARIES")) == "1"
}

// DebugBuild reports whether CSHIM_DEBUG_BUILD asks for debug logging of
// the build and of link-argument classification.
func DebugBuild() bool {
	return os.Getenv(debugVar) != ""
}

// TargetDir returns the artifact workspace for a project rooted at dir,
// honoring the CSHIM_TARGET_DIR override.
func TargetDir(dir string) string {
	if v := os.Getenv(targetDirVar); v != "" {
		return v
	}
	return filepath.Join(dir, "target")
}

// EnvVar describes one variable of the configuration surface.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap lists the configuration surface for project, with current values.
func AsMap(project string) map[string]EnvVar {
	buildType := projectVar(project, "BUILD_TYPE")
	buildLibraries := projectVar(project, "BUILD_LIBRARIES")
	return map[string]EnvVar{
		buildType: {buildType, os.Getenv(buildType),
			"Build profile for the shim and its dependencies (default \"Release\")"},
		buildLibraries: {buildLibraries, os.Getenv(buildLibraries),
			"Force building bundled dependencies even when CMAKE_PREFIX_PATH is set (=1)"},
		debugVar: {debugVar, os.Getenv(debugVar),
			"Log the build and link-argument classification at debug level"},
		targetDirVar: {targetDirVar, os.Getenv(targetDirVar),
			"Artifact workspace (default <project>/target)"},
	}
}
