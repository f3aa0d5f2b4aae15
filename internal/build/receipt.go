package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/clibforge/cshim/project"
)

// Target directory layout:
//
//	target/
//	  .lock                 # build lock
//	  .cshim.json           # receipt of the last successful build
//	  build-<dep>/          # per-dependency build dirs
//	  build-<name>-c/       # shim build dir (CMakeFiles live under build/)
//	  lib/ bin/ include/    # installed dependency artifacts
//	  abi_out/              # generated ABI sources
const receiptFile = ".cshim.json"

// receipt records one successful build under the target dir, so a
// matching rebuild can be answered from it without running cmake.
type receipt struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Profile   string    `json:"profile"`
	Flags     []string  `json:"flags"`
	OutputDir string    `json:"output_dir"`
	BuildTime time.Time `json:"build_time"`
}

func (r *receipt) matches(proj *project.Project, profile string) bool {
	return r.Name == proj.Name && r.Version == proj.Version && r.Profile == profile
}

// loadReceipt reads the receipt under targetDir.
func loadReceipt(targetDir string) (*receipt, error) {
	data, err := os.ReadFile(filepath.Join(targetDir, receiptFile))
	if err != nil {
		return nil, err
	}
	var r receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// saveReceipt writes the receipt under targetDir.
func saveReceipt(targetDir string, r *receipt) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(targetDir, receiptFile), data, 0o644)
}
