package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrRootNotFound indicates a configured root is missing or not a directory.
var ErrRootNotFound = errors.New("library root not found")

// Entry is one immediate subdirectory of a root. It is immutable for the
// duration of a run.
type Entry struct {
	Path string
	Name string
}

// NewEntry builds an Entry for path, deriving Name from the basename.
func NewEntry(path string) Entry {
	return Entry{Path: path, Name: filepath.Base(path)}
}

// List returns the immediate subdirectories of root in directory order (by
// name). Symlinks that resolve to directories are included unless another entry
// already resolves to the same directory; the real directory is preferred over
// its aliases. Plain files are not included.
func List(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list root %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(dirents))
	links := make([]bool, 0, len(dirents))
	// byTarget maps a resolved directory to its index in entries so a symlink
	// and the directory it points at are listed once.
	byTarget := make(map[string]int, len(dirents))
	for _, d := range dirents {
		path := filepath.Join(root, d.Name())
		link := d.Type()&fs.ModeSymlink != 0
		if link {
			target, err := os.Stat(path)
			if err != nil || !target.IsDir() {
				continue
			}
		} else if !d.IsDir() {
			continue
		}

		entry := Entry{Path: path, Name: d.Name()}
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			target = path
		}
		if i, ok := byTarget[target]; ok {
			if links[i] && !link {
				entries[i], links[i] = entry, false
			}
			continue
		}
		byTarget[target] = len(entries)
		entries = append(entries, entry)
		links = append(links, link)
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}
