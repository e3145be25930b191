package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// Title describes one media directory to create under a library root.
type Title struct {
	Name string
	// Sidecars maps file names (e.g. "movie.nfo") to their contents.
	Sidecars map[string]string
	// MediaBytes, when positive, writes a payload file of that size.
	MediaBytes int64
}

// MakeLibrary creates root and one directory per title. It returns the
// created directory paths keyed by title name.
func MakeLibrary(t testing.TB, root string, titles ...Title) map[string]string {
	t.Helper()

	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir root %s: %v", root, err)
	}
	created := make(map[string]string, len(titles))
	for _, title := range titles {
		dir := filepath.Join(root, title.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		for name, body := range title.Sidecars {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
				t.Fatalf("write sidecar %s: %v", name, err)
			}
		}
		if title.MediaBytes > 0 {
			WriteFile(t, filepath.Join(dir, "movie.mkv"), title.MediaBytes)
		}
		created[title.Name] = dir
	}
	return created
}

// Dirs lists the names of directories directly under root, sorted.
func Dirs(t testing.TB, root string) []string {
	t.Helper()

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read %s: %v", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
