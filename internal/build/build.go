// Package build prepares a shim project's native artifacts: it drives
// the CMake builds of the bundled dependencies and of the shim itself,
// recovers the link arguments from the generated build files, and
// assembles the cgo directives a downstream consumer links with.
package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/qiniu/x/log"

	"github.com/clibforge/cshim/internal/abi"
	"github.com/clibforge/cshim/internal/build/lockedfile"
	"github.com/clibforge/cshim/internal/env"
	"github.com/clibforge/cshim/link"
	"github.com/clibforge/cshim/project"
	"github.com/clibforge/cshim/x/cgoflags"
	"github.com/clibforge/cshim/x/cmake"
)

// Options tunes one build.
type Options struct {
	Profile string    // build configuration; default from CSHIM_<NAME>_BUILD_TYPE
	Cached  bool      // answer from the last receipt when it matches
	Stdout  io.Writer // subprocess output; default os.Stdout
	Stderr  io.Writer // subprocess errors; default os.Stderr
}

// Result is the outcome of one shim build.
type Result struct {
	Args      []link.Arg // ordered, as recovered from the build files
	Flags     []string   // final cgo LDFLAGS
	Profile   string
	TargetDir string // artifact workspace
	OutputDir string // shim install root
}

// Build builds proj's bundled dependencies and shim library, extracts
// the link arguments from the shim's build tree, and returns the full
// directive set. The target directory is locked for the duration; the
// process environment is restored afterwards (dependency setup mutates
// it).
func Build(proj *project.Project, opts Options) (*Result, error) {
	if env.DebugBuild() {
		log.SetOutputLevel(log.Ldebug)
	}
	profile := opts.Profile
	if profile == "" {
		profile = env.BuildType(proj.Name)
	}

	targetDir := env.TargetDir(proj.Dir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, err
	}

	unlock, err := lockedfile.MutexAt(filepath.Join(targetDir, ".lock")).Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if opts.Cached {
		// Double-check after acquiring the lock: another process may
		// have finished this exact build.
		if r, err := loadReceipt(targetDir); err == nil && r.matches(proj, profile) {
			log.Infof("build: reusing receipt from %s", r.BuildTime.Format(time.RFC3339))
			return &Result{
				Flags:     r.Flags,
				Profile:   r.Profile,
				TargetDir: targetDir,
				OutputDir: r.OutputDir,
			}, nil
		}
	}

	// Save environment before building and restore after.
	savedEnv := os.Environ()
	defer restoreEnv(savedEnv)

	// When the user has set CMAKE_PREFIX_PATH the dependencies are
	// assumed to be present on the system, unless building is forced.
	buildLibraries := os.Getenv("CMAKE_PREFIX_PATH") == "" || env.BuildLibraries(proj.Name)

	if buildLibraries {
		log.Infof("build: building bundled dependencies %v", depNames(proj))
		for _, dep := range proj.Dependencies {
			if err := buildThirdparty(proj, dep, targetDir, profile, opts); err != nil {
				return nil, fmt.Errorf("building dependency %s: %w", dep.Name, err)
			}
		}
	} else {
		log.Infof("build: using system dependencies %v", depNames(proj))
	}

	shim := newCMake(filepath.Join(proj.Dir, proj.ClibName()), opts)
	shim.OutDir(filepath.Join(targetDir, "build-"+proj.ClibName()))
	shim.Profile(profile)
	shim.DefineBool("CMAKE_EXPORT_COMPILE_COMMANDS", true)
	if buildLibraries {
		shim.Define("CMAKE_PREFIX_PATH", filepath.Join(targetDir, "lib", "cmake"))
	}
	outDir, err := shim.Build()
	if err != nil {
		return nil, fmt.Errorf("building shim %s: %w", proj.ClibName(), err)
	}

	args, err := link.Host().Extract(shim.BuildDir(), proj.VersionedName(), profile)
	if err != nil {
		return nil, err
	}
	log.Infof("build: link arguments %v", args)

	flags := Directives(proj, args, outDir, targetDir, buildLibraries, runtime.GOOS)

	if err := insertABI(proj, shim.BuildDir(), targetDir); err != nil {
		return nil, err
	}

	if err := saveReceipt(targetDir, &receipt{
		Name:      proj.Name,
		Version:   proj.Version,
		Profile:   profile,
		Flags:     flags,
		OutputDir: outDir,
		BuildTime: time.Now(),
	}); err != nil {
		return nil, err
	}

	return &Result{
		Args:      args,
		Flags:     flags,
		Profile:   profile,
		TargetDir: targetDir,
		OutputDir: outDir,
	}, nil
}

// buildThirdparty builds one vendored dependency from thirdparty/<name>,
// installing it into the shared target dir.
func buildThirdparty(proj *project.Project, dep project.Dependency, targetDir, profile string, opts Options) error {
	// Each dependency gets a dedicated build dir, or cmake wipes it on
	// every run and forces a rebuild.
	outDir := filepath.Join(targetDir, "build-"+dep.Name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	c := newCMake(filepath.Join(proj.Dir, "thirdparty", dep.Name), opts)
	c.OutDir(outDir)
	c.InstallPrefix(targetDir)
	c.Profile(profile)
	c.Define("CMAKE_PREFIX_PATH", filepath.Join(targetDir, "lib", "cmake"))
	for _, def := range dep.Definitions {
		c.Define(def.Key, def.Value)
	}
	_, err := c.Build()
	return err
}

func newCMake(sourceDir string, opts Options) *cmake.CMake {
	c := cmake.New(sourceDir)
	if opts.Stdout != nil {
		c.SetStdout(opts.Stdout)
	}
	if opts.Stderr != nil {
		c.SetStderr(opts.Stderr)
	}
	return c
}

// Directives assembles the complete cgo LDFLAGS set for a built shim:
// the shim's own search path and link directive, the shared lib/bin
// search paths when the bundled dependencies were built, one directive
// pair per recovered link argument, and the C++ runtime on linux and
// darwin. The shim links statically except on Windows, where everything
// from the shim down is a DLL so debug builds do not mix C runtimes.
func Directives(proj *project.Project, args []link.Arg, outDir, targetDir string, builtLibraries bool, goos string) []string {
	flags := []string{"-L" + outDir}
	if goos == "windows" {
		flags = append(flags, "-l"+proj.SharedName())
	} else {
		flags = append(flags, "-l"+proj.VersionedName())
	}
	if builtLibraries {
		// bin carries the DLLs on windows; the linker must know about
		// it even though nothing links against its contents directly.
		flags = append(flags,
			"-L"+filepath.Join(targetDir, "lib"),
			"-L"+filepath.Join(targetDir, "bin"))
	}
	flags = append(flags, cgoflags.Flags(args)...)
	switch goos {
	case "linux":
		flags = append(flags, "-lstdc++")
	case "darwin":
		flags = append(flags, "-lc++")
	}
	return flags
}

// insertABI runs the ABI substitution step when the shim ships one.
func insertABI(proj *project.Project, buildDir, targetDir string) error {
	inDir := filepath.Join(proj.Dir, proj.ClibName(), "abi_in")
	if _, err := os.Stat(inDir); err != nil {
		return nil // shim has no ABI step
	}
	return abi.Insert(buildDir, inDir, filepath.Join(targetDir, "abi_out"))
}

func depNames(proj *project.Project) []string {
	names := make([]string, 0, len(proj.Dependencies))
	for _, dep := range proj.Dependencies {
		names = append(names, dep.Name)
	}
	return names
}

func restoreEnv(saved []string) {
	os.Clearenv()
	for _, e := range saved {
		if k, v, ok := strings.Cut(e, "="); ok {
			os.Setenv(k, v)
		}
	}
}
