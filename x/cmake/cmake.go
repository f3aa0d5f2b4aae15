// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

type define struct {
	key      string
	value    string
	typeName string
}

// CMake drives one CMake-based build from source tree to install root.
type CMake struct {
	sourceDir  string
	outDir     string
	installDir string
	generator  string
	profile    string
	toolchain  string
	defines    []define
	env        []string
	stdout     io.Writer
	stderr     io.Writer
}

// New returns a CMake that builds the project at sourceDir.
func New(sourceDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// OutDir sets the output root; build files go to <dir>/build and the
// install step targets <dir> unless InstallPrefix overrides it.
func (c *CMake) OutDir(dir string) { c.outDir = dir }

// InstallPrefix overrides the install root (CMAKE_INSTALL_PREFIX).
func (c *CMake) InstallPrefix(dir string) { c.installDir = dir }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// Profile sets the build configuration, used both as CMAKE_BUILD_TYPE
// and as the --config of multi-configuration generators.
func (c *CMake) Profile(name string) { c.profile = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// SetStdout redirects subprocess standard output.
func (c *CMake) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr redirects subprocess standard error.
func (c *CMake) SetStderr(w io.Writer) { c.stderr = w }

// Setenv adds an environment variable for the cmake subprocesses.
func (c *CMake) Setenv(key, value string) {
	c.env = append(c.env, key+"="+value)
}

// Define adds a -D<key>:STRING=<value> definition. Definitions keep
// their insertion order on the command line; a repeated key is appended
// again and the last occurrence wins.
func (c *CMake) Define(key, value string) {
	c.defines = append(c.defines, define{key: key, value: value, typeName: "STRING"})
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines = append(c.defines, define{key: key, value: v, typeName: "BOOL"})
}

// Use configures the process environment so that CMake and compilers find
// headers, libraries and pkg-config files from a non-system dependency
// installed at root.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	prependPath("CMAKE_PREFIX_PATH", root)
	if _, err := os.Stat(includeDir); err == nil {
		prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependPath("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependPath("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// BuildDir returns the directory CMake generates its build files into.
func (c *CMake) BuildDir() string { return filepath.Join(c.outDir, "build") }

// installPrefix returns the effective install root.
func (c *CMake) installPrefix() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.outDir
}

// Build runs the configure, build and install steps and returns the
// install root.
func (c *CMake) Build() (string, error) {
	if c.outDir == "" {
		dir, err := os.MkdirTemp("", "cshim-build-")
		if err != nil {
			return "", err
		}
		c.outDir = dir
	}
	if err := os.MkdirAll(c.BuildDir(), 0o755); err != nil {
		return "", err
	}
	if err := c.run(c.configureArgs()); err != nil {
		return "", err
	}
	if err := c.run(c.buildArgs()); err != nil {
		return "", err
	}
	if err := c.run(c.installArgs()); err != nil {
		return "", err
	}
	return c.installPrefix(), nil
}

func (c *CMake) configureArgs() []string {
	args := []string{"-S", c.sourceDir, "-B", c.BuildDir()}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	args = append(args, "-DCMAKE_INSTALL_PREFIX:STRING="+c.installPrefix())
	if c.toolchain != "" {
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE:STRING="+c.toolchain)
	}
	if c.profile != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE:STRING="+c.profile)
	}
	for _, d := range c.defines {
		args = append(args, "-D"+d.key+":"+d.typeName+"="+d.value)
	}
	return args
}

func (c *CMake) buildArgs() []string {
	args := []string{"--build", c.BuildDir()}
	if c.profile != "" {
		args = append(args, "--config", c.profile)
	}
	return args
}

func (c *CMake) installArgs() []string {
	return []string{"--install", c.BuildDir(), "--prefix", c.installPrefix()}
}

func (c *CMake) run(args []string) error {
	cmd := exec.Command("cmake", args...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	return cmd.Run()
}

// prependPath prepends value to a PATH-style env var.
func prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := os.Getenv(key); cur != "" {
		value += sep + cur
	}
	os.Setenv(key, value)
}

// appendFlag appends a space-separated flag to an env var.
func appendFlag(key, flag string) {
	if cur := os.Getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	os.Setenv(key, flag)
}
