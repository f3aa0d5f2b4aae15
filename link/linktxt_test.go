// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeLinkTxt places a transcript at the conventional path for target.
func writeLinkTxt(t *testing.T, buildDir, target, content string) {
	t.Helper()
	path := linkTxtPath(buildDir, target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write link.txt: %v", err)
	}
}

func TestLinkTxtExtraction(t *testing.T) {
	buildDir := t.TempDir()
	writeLinkTxt(t, buildDir, "mylib-c-1_2",
		"cc -o out.exe a.o -L/x -lfoo /y/libbar.so -Wall")

	got, err := Unix.Extract(buildDir, "mylib-c-1_2", "Release")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []Arg{
		Dir{Path: "/x"},
		Lib{Name: "foo"},
		Dylib{path: "/y/libbar.so", basename: "bar", libname: "libbar.so"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestLinkTxtOrderPreserved(t *testing.T) {
	buildDir := t.TempDir()
	// Duplicate directives later in the sequence legitimately override
	// earlier search paths, so order must survive extraction.
	writeLinkTxt(t, buildDir, "tgt",
		"cc -o liba.so -L/b -la -L/a -la -L/b")

	got, err := Unix.Extract(buildDir, "tgt", "Release")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []Arg{
		Dir{Path: "/b"},
		Lib{Name: "a"},
		Dir{Path: "/a"},
		Lib{Name: "a"},
		Dir{Path: "/b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestLinkTxtMissingIsFatal(t *testing.T) {
	buildDir := t.TempDir()
	_, err := Unix.Extract(buildDir, "tgt", "Release")
	if err == nil {
		t.Fatal("Extract succeeded with no link.txt, want error")
	}
	if !strings.Contains(err.Error(), "link.txt") {
		t.Errorf("error %q does not name the transcript file", err)
	}
}

func TestLinkTxtNoOutputFlag(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no -o at all", "cc -L/x -lfoo"},
		{"-o is the last token", "cc -lfoo -o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildDir := t.TempDir()
			writeLinkTxt(t, buildDir, "tgt", tt.content)
			got, err := Unix.Extract(buildDir, "tgt", "Release")
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Extract = %v, want empty", got)
			}
		})
	}
}

func TestLinkTxtIdempotent(t *testing.T) {
	buildDir := t.TempDir()
	writeLinkTxt(t, buildDir, "tgt",
		"c++ -fPIC -o libtgt.so x.o -L/opt/lib -lz /lib/libssl.so.1.1 -pthread")

	first, err := Unix.Extract(buildDir, "tgt", "Release")
	if err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	second, err := Unix.Extract(buildDir, "tgt", "Release")
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent: %v then %v", first, second)
	}
}
