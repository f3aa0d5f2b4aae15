// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import "fmt"

// Extract recovers the ordered link arguments for target from the build
// files under buildDir.
//
// On unix-like platforms the link.txt transcript is the only source and
// any failure to read it is fatal. On Windows the vcxproj project file is
// tried first and the generated build.make recipe second; when neither
// yields a result the extraction fails with a message naming both
// attempted sources. Each backend is tried at most once per call.
//
// config selects the build configuration ("Release", "Debug") in project
// files that record one dependency list per configuration; the other
// backends ignore it. Extraction only reads files, so concurrent calls
// for independent targets are safe.
func (p Platform) Extract(buildDir, target, config string) ([]Arg, error) {
	if p == Windows {
		res, err := p.vcxprojLinking(buildDir, target, config)
		if err != nil || res.found {
			return res.args, err
		}
		res, err = p.buildMakeLinking(buildDir, target)
		if err != nil || res.found {
			return res.args, err
		}
		return nil, fmt.Errorf("no link arguments for target %s: tried %s and %s",
			target, vcxprojPath(buildDir, target), buildMakePath(buildDir, target))
	}
	return p.linkTxtLinking(buildDir, target)
}
