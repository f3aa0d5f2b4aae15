// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleBuildMake = `# CMAKE generated file: DO NOT EDIT!
CMakeFiles\tgt-shared.dir\objects1.rsp:
	link.exe /nologo @<<
 /out:tgt-shared.dll /dll /machine:x64 zlib.lib C:\deps\lib\Half.lib kernel32.lib user32.obj
<<
	post.lib
`

func writeBuildMake(t *testing.T, buildDir, target, content string) {
	t.Helper()
	path := buildMakePath(buildDir, target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write build.make: %v", err)
	}
}

func TestBuildMakeCollectsAfterDLLMarker(t *testing.T) {
	buildDir := t.TempDir()
	writeBuildMake(t, buildDir, "tgt", sampleBuildMake)

	res, err := Windows.buildMakeLinking(buildDir, "tgt")
	if err != nil {
		t.Fatalf("buildMakeLinking failed: %v", err)
	}
	if !res.found {
		t.Fatal("buildMakeLinking found nothing")
	}
	// post.lib follows the "<<" terminator and must not be collected;
	// user32.obj does not match the library pattern.
	want := []Arg{
		Dylib{path: `zlib.lib`, basename: "zlib", libname: "zlib.lib"},
		Dylib{path: `C:\deps\lib\Half.lib`, basename: "Half", libname: "Half.lib"},
		Dylib{path: `kernel32.lib`, basename: "kernel32", libname: "kernel32.lib"},
	}
	if !reflect.DeepEqual(res.args, want) {
		t.Errorf("args = %v, want %v", res.args, want)
	}
}

func TestBuildMakeNoMarkerIsSoft(t *testing.T) {
	buildDir := t.TempDir()
	writeBuildMake(t, buildDir, "tgt", "lib.exe /out:tgt.lib zlib.lib\n")

	res, err := Windows.buildMakeLinking(buildDir, "tgt")
	if err != nil {
		t.Fatalf("buildMakeLinking failed: %v", err)
	}
	if res.found {
		t.Errorf("found = true without a /dll marker, args %v", res.args)
	}
}

func TestBuildMakeMissingFileIsSoft(t *testing.T) {
	res, err := Windows.buildMakeLinking(t.TempDir(), "tgt")
	if err != nil {
		t.Fatalf("buildMakeLinking failed: %v", err)
	}
	if res.found {
		t.Error("found = true with no build.make")
	}
}

func TestBuildMakePath(t *testing.T) {
	got := buildMakePath("build", "mylib-c-1_2")
	want := filepath.Join("build", "CMakeFiles", "mylib-c-1_2-shared.dir", "build.make")
	if got != want {
		t.Errorf("buildMakePath = %q, want %q", got, want)
	}
}
