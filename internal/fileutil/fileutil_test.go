package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestReadHeadHonoursLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.nfo")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadHead(path, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "0123" {
		t.Fatalf("got %q, want %q", got, "0123")
	}

	all, err := ReadHead(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(all) != "0123456789" {
		t.Fatalf("got %q, want full content", all)
	}
}

func TestReadHeadMissingFile(t *testing.T) {
	_, err := ReadHead(filepath.Join(t.TempDir(), "absent.nfo"), 10)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRemoveTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Movie (2020)")
	if err := os.MkdirAll(filepath.Join(root, "Subs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "Subs", "en.srt"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveTree(root); err != nil {
		t.Fatalf("RemoveTree failed: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("expected tree removed, stat err = %v", err)
	}
	if err := RemoveTree(root); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error on second removal, got %v", err)
	}
}

func TestIsAccessDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"permission", &fs.PathError{Op: "unlinkat", Path: "/x", Err: unix.EACCES}, true},
		{"not permitted", &fs.PathError{Op: "unlinkat", Path: "/x", Err: unix.EPERM}, true},
		{"read only", &fs.PathError{Op: "unlinkat", Path: "/x", Err: unix.EROFS}, true},
		{"busy", &fs.PathError{Op: "unlinkat", Path: "/x", Err: unix.EBUSY}, false},
		{"sentinel", fs.ErrPermission, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAccessDenied(tt.err); got != tt.want {
				t.Fatalf("IsAccessDenied(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
