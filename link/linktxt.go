// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

// linkTxtPath returns the conventional location of the linker-invocation
// transcript CMake records for target.
func linkTxtPath(buildDir, target string) string {
	return filepath.Join(buildDir, "CMakeFiles", target+".dir", "link.txt")
}

// linkTxtLinking parses the link.txt transcript for target. Everything up
// to and including the "-o <output>" pair precedes the link arguments
// proper and is discarded; the remaining tokens are classified, and
// tokens that do not classify (warning flags, object files and the like)
// are silently dropped.
//
// A transcript that cannot be read is a hard error: a missing link.txt
// means the native build did not run as expected, and returning an empty
// sequence would silently produce a broken link.
func (p Platform) linkTxtLinking(buildDir, target string) ([]Arg, error) {
	path := linkTxtPath(buildDir, target)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read link transcript %s: %w", path, err)
	}
	log.Debugf("link: reading transcript %s", path)

	toks := strings.Fields(string(data))
	var rest []string
	for i, tok := range toks {
		if tok == "-o" && i+1 < len(toks) {
			rest = toks[i+2:]
			break
		}
	}

	var args []Arg
	for _, tok := range rest {
		if arg, ok := p.Classify(tok); ok {
			args = append(args, arg)
		}
	}
	return args, nil
}
