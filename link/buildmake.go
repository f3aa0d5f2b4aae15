// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

func buildMakePath(buildDir, target string) string {
	return filepath.Join(buildDir, "CMakeFiles", target+"-shared.dir", "build.make")
}

// buildMakeLinking recovers linked dependencies from the generated NMake
// recipe for target's shared-library variant. The recipe lists the
// libraries between the "/dll" marker and the "<<" terminator; tokens
// before the marker are ignored. A recipe without the marker carries no
// dynamic-link section, so it is a soft miss, as is a missing file.
func (p Platform) buildMakeLinking(buildDir, target string) (result, error) {
	path := buildMakePath(buildDir, target)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("link: no build recipe at %s", path)
			return result{}, nil
		}
		return result{}, fmt.Errorf("cannot read build recipe %s: %w", path, err)
	}

	foundDLL := false
	var args []Arg
	for _, tok := range strings.Fields(string(data)) {
		if tok == "/dll" {
			foundDLL = true
			continue
		}
		if !foundDLL {
			continue
		}
		if tok == "<<" {
			break
		}
		if arg, ok := p.Match(tok); ok {
			args = append(args, arg)
		}
	}
	if !foundDLL {
		return result{}, nil
	}
	return result{args: args, found: true}, nil
}
