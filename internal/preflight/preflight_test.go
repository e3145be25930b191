package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"mediadedup/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, AccessReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if result.Detail != "read/write ok" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail != "does not exist" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, AccessRead)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if r := CheckDirectoryAccess("test", dir, AccessRead); !r.Passed {
		t.Fatalf("read check should pass: %s", r.Detail)
	}
	if r := CheckDirectoryAccess("test", dir, AccessReadWrite); r.Passed {
		t.Fatal("write check should fail on read-only dir")
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	present := filepath.Join(base, "present")
	if err := os.Mkdir(present, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Paths = []string{present, filepath.Join(base, "missing")}
	cfg.History.Path = filepath.Join(base, "history.db")
	cfg.Lock.Path = filepath.Join(base, "run.lock")

	report := RunAll(&cfg, false)
	if len(report) != 3 {
		t.Fatalf("expected roots and history checks, got %+v", report)
	}
	failed := Failed(report)
	if len(failed) != 1 || failed[0].Path != cfg.Paths[1] {
		t.Fatalf("unexpected failures %+v", failed)
	}

	if got := len(RunAll(&cfg, true)); got != 4 {
		t.Fatalf("delete runs also check the lock directory, got %d results", got)
	}
	if RunAll(nil, true) != nil {
		t.Fatal("nil config yields no results")
	}
}
