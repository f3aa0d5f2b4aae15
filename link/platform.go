// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/qiniu/x/log"
)

// Platform selects the pattern rules and extraction backends for one
// target platform. The extraction core carries no build-tag conditionals,
// so any platform's artifacts can be parsed on any host.
type Platform int

const (
	Unix Platform = iota
	Windows
)

// Host returns the Platform of the running system.
func Host() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Unix
}

func (p Platform) String() string {
	if p == Windows {
		return "windows"
	}
	return "unix"
}

// patterns holds the per-platform matching rules. dylib captures the
// library file name in group 1 and the stripped basename in group 2.
type patterns struct {
	dirPrefix string
	libPrefix string
	dylib     *regexp.Regexp
}

var platformPatterns = [...]patterns{
	Unix: {
		dirPrefix: "-L",
		libPrefix: "-l",
		// Shared objects carry at most three dot-separated numeric
		// version components after .so.
		dylib: regexp.MustCompile(`(lib([^/]+?)(?:\.dylib|\.so|\.so\.\d+|\.so\.\d+\.\d+|\.so\.\d+\.\d+\.\d+))$`),
	},
	Windows: {
		dirPrefix: "-L",
		libPrefix: "-l",
		dylib:     regexp.MustCompile(`(?:^|[\\/])(([^\\/]+)\.lib)$`),
	},
}

// Classify recognizes a single linker token. A -l flag yields a Lib, a
// -L flag yields a Dir, and a path matching the platform's shared-library
// naming convention yields a Dylib. The flag prefixes are always checked
// first, so a token like "-llibfoo.so" is a Lib named "libfoo.so", never
// a Dylib. Anything else reports false.
func (p Platform) Classify(tok string) (Arg, bool) {
	pat := &platformPatterns[p]
	if strings.HasPrefix(tok, pat.libPrefix) {
		return Lib{Name: tok[len(pat.libPrefix):]}, true
	}
	if strings.HasPrefix(tok, pat.dirPrefix) {
		log.Debugf("link: %q is a link dir", tok)
		return Dir{Path: tok[len(pat.dirPrefix):]}, true
	}
	return p.Match(tok)
}

// Match tests tok against the platform's shared-library path pattern
// alone, without the flag-prefix checks. The Windows project-file and
// makefile backends classify their tokens this way.
func (p Platform) Match(tok string) (Arg, bool) {
	m := platformPatterns[p].dylib.FindStringSubmatch(tok)
	if m == nil {
		log.Debugf("link: %q is not a library path", tok)
		return nil, false
	}
	log.Debugf("link: %q is a library path", tok)
	return Dylib{path: tok, libname: m[1], basename: m[2]}, true
}
