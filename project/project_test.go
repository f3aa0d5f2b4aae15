// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_WithData(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *Project
		wantErr bool
	}{
		{
			name: "full descriptor",
			data: `{
				"name": "openexr",
				"version": "3.1.4",
				"dependencies": [
					{"name": "zlib"},
					{"name": "imath", "definitions": [
						{"key": "BUILD_SHARED_LIBS", "value": "OFF"},
						{"key": "IMATH_INSTALL_PKG_CONFIG", "value": "ON"}
					]}
				]
			}`,
			want: &Project{
				Name:    "openexr",
				Version: "3.1.4",
				Dependencies: []Dependency{
					{Name: "zlib"},
					{Name: "imath", Definitions: []Definition{
						{Key: "BUILD_SHARED_LIBS", Value: "OFF"},
						{Key: "IMATH_INSTALL_PKG_CONFIG", Value: "ON"},
					}},
				},
			},
		},
		{
			name: "no dependencies",
			data: `{"name": "zstd", "version": "v1.5.0"}`,
			want: &Project{Name: "zstd", Version: "v1.5.0"},
		},
		{
			name:    "missing name",
			data:    `{"version": "1.0.0"}`,
			wantErr: true,
		},
		{
			name:    "invalid version",
			data:    `{"name": "x", "version": "latest"}`,
			wantErr: true,
		},
		{
			name:    "dependency with empty name",
			data:    `{"name": "x", "version": "1.0.0", "dependencies": [{"name": ""}]}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			data:    `{"name": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("", []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	data := `{"name": "openexr", "version": "3.1.4"}`
	if err := os.WriteFile(filepath.Join(dir, File), []byte(data), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "openexr" {
		t.Errorf("Name = %q, want %q", p.Name, "openexr")
	}
	if !filepath.IsAbs(p.Dir) {
		t.Errorf("Dir = %q, want an absolute path", p.Dir)
	}
}

func TestLoadMissingDescriptor(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load succeeded with no descriptor, want error")
	}
}

func TestTargetNames(t *testing.T) {
	tests := []struct {
		version       string
		wantVersioned string
		wantShared    string
	}{
		{"3.1.4", "openexr-c-3_1", "openexr-c-3_1-shared"},
		{"v1.5.0", "openexr-c-1_5", "openexr-c-1_5-shared"},
		{"v2", "openexr-c-2_0", "openexr-c-2_0-shared"},
	}
	for _, tt := range tests {
		p := &Project{Name: "openexr", Version: tt.version}
		if got := p.VersionedName(); got != tt.wantVersioned {
			t.Errorf("VersionedName(%q) = %q, want %q", tt.version, got, tt.wantVersioned)
		}
		if got := p.SharedName(); got != tt.wantShared {
			t.Errorf("SharedName(%q) = %q, want %q", tt.version, got, tt.wantShared)
		}
		if got := p.ClibName(); got != "openexr-c" {
			t.Errorf("ClibName() = %q, want %q", got, "openexr-c")
		}
	}
}
