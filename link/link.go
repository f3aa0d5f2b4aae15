// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link recovers linker arguments from the build files a native
// CMake build leaves behind: the link.txt transcript on unix-like systems,
// and vcxproj or build.make files on Windows.
package link

import "fmt"

// -----------------------------------------------------------------------------

// Arg is a single normalized link instruction recovered from a build file.
// It is one of Dir, Lib or Dylib. Sequences of Args keep the order the
// instructions appeared in the source file; later directives may override
// earlier search paths, so callers must not sort or deduplicate them.
type Arg interface {
	fmt.Stringer
	isArg()
}

// Dir adds a directory to the linker search path (a -L flag).
type Dir struct {
	Path string
}

// Lib links a library by bare name (a -l flag), resolved through the
// search path at final link time.
type Lib struct {
	Name string
}

// Dylib is a library that appeared as a concrete file path.
//
// For a path "/home/libs/libmylib.so", Basename is "mylib" and Libname
// is "libmylib.so". Both are derived from the path by the same platform
// pattern that matched it, so a Dylib can only be produced by the
// matcher, never assembled by hand.
type Dylib struct {
	path     string
	basename string
	libname  string
}

func (Dir) isArg()   {}
func (Lib) isArg()   {}
func (Dylib) isArg() {}

func (d Dir) String() string { return "dir(" + d.Path + ")" }

func (l Lib) String() string { return "lib(" + l.Name + ")" }

func (d Dylib) String() string {
	return fmt.Sprintf("dylib(%s basename=%s libname=%s)", d.path, d.basename, d.libname)
}

// Path returns the full path as it appeared in the build file.
func (d Dylib) Path() string { return d.path }

// Basename returns the library name stripped of platform prefix and suffix.
func (d Dylib) Basename() string { return d.basename }

// Libname returns the final path segment, e.g. "libmylib.so".
func (d Dylib) Libname() string { return d.libname }

// -----------------------------------------------------------------------------
