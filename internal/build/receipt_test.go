package build

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/clibforge/cshim/project"
)

func TestSaveAndLoadReceipt(t *testing.T) {
	targetDir := t.TempDir()

	now := time.Now().Truncate(time.Second)
	r := &receipt{
		Name:      "openexr",
		Version:   "3.1.4",
		Profile:   "Release",
		Flags:     []string{"-L/out", "-lopenexr-c-3_1"},
		OutputDir: filepath.Join(targetDir, "build-openexr-c"),
		BuildTime: now,
	}

	if err := saveReceipt(targetDir, r); err != nil {
		t.Fatalf("saveReceipt failed: %v", err)
	}
	loaded, err := loadReceipt(targetDir)
	if err != nil {
		t.Fatalf("loadReceipt failed: %v", err)
	}

	if loaded.Name != r.Name || loaded.Version != r.Version || loaded.Profile != r.Profile {
		t.Errorf("loaded = %+v, want %+v", loaded, r)
	}
	if !reflect.DeepEqual(loaded.Flags, r.Flags) {
		t.Errorf("Flags = %v, want %v", loaded.Flags, r.Flags)
	}
	if !loaded.BuildTime.Truncate(time.Second).Equal(now) {
		t.Errorf("BuildTime = %v, want %v", loaded.BuildTime, now)
	}
}

func TestLoadReceiptMissing(t *testing.T) {
	if _, err := loadReceipt(t.TempDir()); err == nil {
		t.Fatal("loadReceipt succeeded with no receipt, want error")
	}
}

func TestReceiptMatches(t *testing.T) {
	proj := &project.Project{Name: "openexr", Version: "3.1.4"}
	tests := []struct {
		r    receipt
		want bool
	}{
		{receipt{Name: "openexr", Version: "3.1.4", Profile: "Release"}, true},
		{receipt{Name: "openexr", Version: "3.1.4", Profile: "Debug"}, false},
		{receipt{Name: "openexr", Version: "3.2.0", Profile: "Release"}, false},
		{receipt{Name: "zlib", Version: "3.1.4", Profile: "Release"}, false},
	}
	for _, tt := range tests {
		if got := tt.r.matches(proj, "Release"); got != tt.want {
			t.Errorf("matches(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
