package internal

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/clibforge/cshim/internal/build"
	"github.com/clibforge/cshim/project"
	"github.com/clibforge/cshim/x/cgoflags"
)

var (
	buildVerbose bool
	buildProfile string
	buildCached  bool
	buildCgoOut  string
	buildCgoPkg  string
	buildOutput  string
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Build a shim project and print its linker flags",
	Long: `Build loads the cshim.json descriptor in dir (default "."), builds the
shim library and its bundled dependencies, and prints the cgo LDFLAGS
needed to link against the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Enable verbose build output")
	buildCmd.Flags().StringVar(&buildProfile, "profile", "", "Build profile (Release, Debug, ...)")
	buildCmd.Flags().BoolVar(&buildCached, "cached", false, "Reuse the last build when its receipt matches")
	buildCmd.Flags().StringVar(&buildCgoOut, "cgo-out", "", "Write a generated cgo directives file")
	buildCmd.Flags().StringVar(&buildCgoPkg, "cgo-pkg", "main", "Package name for the generated cgo file")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Export path (directory, .zip or .tar.xz)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	proj, err := project.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	// Resolve the output path before building.
	if buildOutput != "" {
		abs, err := filepath.Abs(buildOutput)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		buildOutput = abs
	}

	opts := build.Options{
		Profile: buildProfile,
		Cached:  buildCached,
	}
	if !buildVerbose {
		opts.Stdout = io.Discard
		opts.Stderr = io.Discard
	}

	res, err := build.Build(proj, opts)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", proj.Name, err)
	}

	fmt.Println(strings.Join(res.Flags, " "))

	if buildCgoOut != "" {
		data := cgoflags.File(buildCgoPkg, res.Flags)
		if err := os.WriteFile(buildCgoOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write cgo file: %w", err)
		}
	}

	if buildOutput != "" {
		if err := outputResult(res.OutputDir, buildOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return nil
}

// outputResult writes the build output to dest. A ".zip" or ".tar.xz"
// suffix selects an archive; anything else copies the directory.
func outputResult(srcDir, dest string) error {
	switch {
	case strings.HasSuffix(dest, ".zip"):
		return zipDir(srcDir, dest)
	case strings.HasSuffix(dest, ".tar.xz"):
		return tarXzDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
}

// tarXzDir creates an xz-compressed tarball at dest from the contents of srcDir.
func tarXzDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(xw)

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tw, file)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return xw.Close()
}
