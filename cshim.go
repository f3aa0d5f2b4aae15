// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cshim prepares C/C++ shim libraries for cgo consumers: it
// drives the CMake builds of a shim project and its bundled third-party
// dependencies, recovers the exact link arguments from the build tool's
// generated files, and reports the linker directives the host build
// needs. A downstream package typically calls Build from a go:generate
// program and writes the resulting flags into a generated cgo file.
package cshim

import (
	"github.com/clibforge/cshim/internal/build"
	"github.com/clibforge/cshim/project"
)

type (
	// Options tunes one build.
	Options = build.Options
	// Result carries the recovered link arguments, the final cgo
	// flags, and the artifact directories of one build.
	Result = build.Result
)

// Build loads the cshim.json descriptor in dir, builds the shim and its
// bundled dependencies, and returns the recovered link arguments and
// final cgo flags.
func Build(dir string, opts Options) (*Result, error) {
	proj, err := project.Load(dir)
	if err != nil {
		return nil, err
	}
	return build.Build(proj, opts)
}
