// Package cgoflags renders recovered link arguments as the linker
// directives a cgo consumer needs.
package cgoflags

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clibforge/cshim/link"
)

// Flags translates args into LDFLAGS, in order. A resolved library path
// contributes its containing directory as a search path plus a link by
// basename.
func Flags(args []link.Arg) []string {
	var flags []string
	for _, arg := range args {
		switch a := arg.(type) {
		case link.Dir:
			flags = append(flags, "-L"+a.Path)
		case link.Lib:
			flags = append(flags, "-l"+a.Name)
		case link.Dylib:
			flags = append(flags, "-L"+filepath.Dir(a.Path()), "-l"+a.Basename())
		}
	}
	return flags
}

// File renders a generated Go source file for package pkg whose #cgo
// comment carries flags.
func File(pkg string, flags []string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by cshim; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// #cgo LDFLAGS: %s\n", strings.Join(flags, " "))
	fmt.Fprintln(&b, `import "C"`)
	return b.Bytes()
}
