// Package abi bakes platform-specific type-size metadata into generated
// sources. The shim's CMake build compiles a small abigen binary that
// writes the size and alignment of every opaque type to abigen.txt; the
// generated bindings carry %SIZEOF(type)% and %ALIGNOF(type)% markers
// that are replaced with the recorded values here. Baking the sizes in at
// build time keeps a libclang dependency out of downstream consumers.
package abi

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/qiniu/x/log"
)

var marker = regexp.MustCompile(`%(SIZEOF|ALIGNOF)\(([^)]+)\)%`)

type typeInfo struct {
	size  string
	align string
}

// Insert copies every file from inDir to outDir with its ABI markers
// replaced, running the generated abigen binary under buildDir first if
// its abigen.txt output is missing. A marker naming a type abigen did not
// record is a hard error: a miss would make the generated bindings lie
// about layout. Files whose output is already newer than both the input
// and abigen.txt are skipped.
func Insert(buildDir, inDir, outDir string) error {
	table, txt, err := load(buildDir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("cannot read abi input dir %s: %w", inDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		in := filepath.Join(inDir, e.Name())
		out := filepath.Join(outDir, e.Name())
		if upToDate(out, in, txt) {
			log.Debugf("abi: %s is up to date", out)
			continue
		}
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		subst, err := substitute(data, table)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		if err := os.WriteFile(out, subst, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// load parses abigen.txt under buildDir, running the abigen binary to
// produce it when absent. Each line has the form "<type> <size> <align>";
// the type name may contain spaces.
func load(buildDir string) (map[string]typeInfo, string, error) {
	txt := filepath.Join(buildDir, "abigen.txt")
	if _, err := os.Stat(txt); err != nil {
		bin := filepath.Join(buildDir, "abigen", "abigen")
		cmd := exec.Command(bin)
		cmd.Dir = buildDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, "", fmt.Errorf("running abigen %s: %v\n%s", bin, err, out)
		}
	}

	data, err := os.ReadFile(txt)
	if err != nil {
		return nil, "", fmt.Errorf("cannot read %s: %w", txt, err)
	}

	table := make(map[string]typeInfo)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name := strings.Join(fields[:len(fields)-2], " ")
		table[name] = typeInfo{
			size:  fields[len(fields)-2],
			align: fields[len(fields)-1],
		}
	}
	return table, txt, nil
}

func substitute(data []byte, table map[string]typeInfo) ([]byte, error) {
	var missing []string
	out := marker.ReplaceAllFunc(data, func(m []byte) []byte {
		sub := marker.FindSubmatch(m)
		info, ok := table[string(sub[2])]
		if !ok {
			missing = append(missing, string(sub[2]))
			return m
		}
		if string(sub[1]) == "SIZEOF" {
			return []byte(info.size)
		}
		return []byte(info.align)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("no recorded layout for types: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// upToDate reports whether out is newer than every input.
func upToDate(out string, inputs ...string) bool {
	oi, err := os.Stat(out)
	if err != nil {
		return false
	}
	for _, in := range inputs {
		ii, err := os.Stat(in)
		if err != nil || !oi.ModTime().After(ii.ModTime()) {
			return false
		}
	}
	return true
}
