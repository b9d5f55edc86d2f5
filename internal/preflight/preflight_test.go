package preflight_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trcconv/internal/preflight"
)

func TestCheckSourceDir(t *testing.T) {
	dir := t.TempDir()
	if result := preflight.CheckSourceDir(dir); !result.Passed {
		t.Fatalf("expected pass for %s: %s", dir, result.Detail)
	}
	if result := preflight.CheckSourceDir(filepath.Join(dir, "absent")); result.Passed {
		t.Fatal("expected failure for missing directory")
	}
	if result := preflight.CheckSourceDir(""); result.Passed {
		t.Fatal("expected failure for unconfigured directory")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := preflight.CheckSourceDir(file); result.Passed {
		t.Fatal("expected failure for non-directory")
	}
}

func TestCheckOutputDirCreatesMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out")
	result := preflight.CheckOutputDir(path)
	if !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestCheckFreeSpaceDisabled(t *testing.T) {
	if result := preflight.CheckFreeSpace(t.TempDir(), 0); !result.Passed {
		t.Fatalf("expected disabled check to pass: %s", result.Detail)
	}
}

func TestCheckToolboxMissingBinary(t *testing.T) {
	result := preflight.CheckToolbox("definitely-not-a-real-binary-name")
	if result.Passed {
		t.Fatal("expected failure for unresolvable binary")
	}
	if !strings.Contains(result.Detail, "not found") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestSummarize(t *testing.T) {
	results := []preflight.Result{
		{Name: "A", Passed: true, Detail: "ok"},
		{Name: "B", Detail: "broken"},
	}
	failed := preflight.Failures(results)
	if len(failed) != 1 || failed[0].Name != "B" {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	err := preflight.Summarize(failed)
	if err == nil || !strings.Contains(err.Error(), "B: broken") {
		t.Fatalf("unexpected summary: %v", err)
	}
	if err := preflight.Summarize(nil); err != nil {
		t.Fatalf("expected nil summary, got %v", err)
	}
}
