// Copyright 2025 The cshim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

// result is one backend's outcome: either a found sequence or nothing,
// which tells the selector to try the next backend. Hard failures travel
// separately as errors.
type result struct {
	args  []Arg
	found bool
}

func vcxprojPath(buildDir, target string) string {
	return filepath.Join(buildDir, target+".vcxproj")
}

// vcxprojLinking recovers the linked dependencies of target from its
// Visual Studio project file. The document is walked as a stream of tag
// events: inside an ItemDefinitionGroup whose Condition mentions config,
// the Link/AdditionalDependencies element holds a semicolon-delimited
// dependency list. The first matching configuration wins, even when its
// list is empty.
//
// A missing file is a soft miss (the selector falls back to the next
// backend); malformed XML is a hard error, since a structurally broken
// project file means the generator's output format has changed in a way
// this parser does not understand.
func (p Platform) vcxprojLinking(buildDir, target, config string) (result, error) {
	path := vcxprojPath(buildDir, target)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("link: no project file at %s", path)
			return result{}, nil
		}
		return result{}, fmt.Errorf("cannot read project file %s: %w", path, err)
	}
	defer f.Close()

	var (
		inConfig bool
		inLink   bool
		inDeps   bool
		deps     strings.Builder
	)

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result{}, fmt.Errorf("malformed project file %s: %w", path, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ItemDefinitionGroup":
				for _, attr := range t.Attr {
					if attr.Name.Local == "Condition" && strings.Contains(attr.Value, config) {
						inConfig = true
					}
				}
			case "Link":
				if inConfig {
					inLink = true
				}
			case "AdditionalDependencies":
				if inConfig && inLink {
					inDeps = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "ItemDefinitionGroup":
				inConfig = false
			case "Link":
				inLink = false
			case "AdditionalDependencies":
				if inDeps {
					var args []Arg
					for _, dep := range strings.Split(deps.String(), ";") {
						if arg, ok := p.Match(strings.TrimSpace(dep)); ok {
							args = append(args, arg)
						}
					}
					return result{args: args, found: true}, nil
				}
			}
		case xml.CharData:
			if inDeps {
				deps.Write(t)
			}
		}
	}
	return result{}, nil
}
