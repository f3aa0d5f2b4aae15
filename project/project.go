// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project loads the cshim.json descriptor of a shim project.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// File is the descriptor file name looked up in the project directory.
const File = "cshim.json"

// Definition is one CMake cache definition for a dependency build.
// Definitions are ordered; they reach the cmake command line in the
// order they appear in the descriptor.
type Definition struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Dependency is a bundled third-party library whose sources are vendored
// under thirdparty/<name> in the project tree.
type Dependency struct {
	Name        string       `json:"name"`
	Definitions []Definition `json:"definitions,omitempty"`
}

// Project describes a shim project: the generated C wrapper library plus
// the dependencies it is built against.
type Project struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Dependencies []Dependency `json:"dependencies,omitempty"`

	// Dir is the project root the descriptor was loaded from.
	Dir string `json:"-"`
}

// Parse reads and parses a descriptor from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
func Parse(file string, data []byte) (*Project, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var p Project

	if err := json.NewDecoder(reader).Decode(&p); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Load parses the descriptor in dir and records dir as the project root.
func Load(dir string) (*Project, error) {
	p, err := Parse(filepath.Join(dir, File), nil)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	p.Dir = abs
	return p, nil
}

func (p *Project) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%s: missing project name", File)
	}
	if !semver.IsValid(canonical(p.Version)) {
		return fmt.Errorf("%s: invalid version %q", File, p.Version)
	}
	for _, dep := range p.Dependencies {
		if dep.Name == "" {
			return fmt.Errorf("%s: dependency with empty name", File)
		}
	}
	return nil
}

// ClibName returns the shim source directory name, "<name>-c".
func (p *Project) ClibName() string {
	return p.Name + "-c"
}

// VersionedName returns the library target name with the major and minor
// versions baked in, e.g. "openexr-c-3_1" for version 3.1.4.
func (p *Project) VersionedName() string {
	major, minor := p.majorMinor()
	return fmt.Sprintf("%s-c-%s_%s", p.Name, major, minor)
}

// SharedName returns the target name of the shared-library variant.
func (p *Project) SharedName() string {
	return p.VersionedName() + "-shared"
}

func (p *Project) majorMinor() (major, minor string) {
	v := canonical(p.Version)
	major = strings.TrimPrefix(semver.Major(v), "v")
	minor = "0"
	if mm := strings.TrimPrefix(semver.MajorMinor(v), "v"); mm != "" {
		if _, rest, ok := strings.Cut(mm, "."); ok {
			minor = rest
		}
	}
	return major, minor
}

// canonical adds the "v" prefix semver expects; descriptors may carry
// either "1.2.3" or "v1.2.3".
func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
