package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"mediadedup/internal/config"
	"mediadedup/internal/identity"
	"mediadedup/internal/library"
)

func newExtractor(t *testing.T, opts ...func(*identity.Options)) *identity.Extractor {
	t.Helper()
	cfg := config.Default().Identity
	o := identity.Options{
		IDPattern:         cfg.IDPattern,
		SidecarExtensions: cfg.SidecarExtensions,
		MaxSidecarBytes:   cfg.MaxSidecarBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	ex, err := identity.New(o)
	if err != nil {
		t.Fatalf("identity.New: %v", err)
	}
	return ex
}

func makeDir(t *testing.T, root, name string, files map[string]string) library.Entry {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return library.NewEntry(dir)
}

func TestKeyPrefersSidecarIdentifier(t *testing.T) {
	root := t.TempDir()
	entry := makeDir(t, root, "Completely Different Name", map[string]string{
		"movie.nfo": "<movie><id>tt1234567</id></movie>",
	})

	res := newExtractor(t).Resolve(entry)
	if res.Key != "id:tt1234567" {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if res.Source != identity.SourceID {
		t.Fatalf("unexpected source %q", res.Source)
	}
	if res.Sidecar != filepath.Join(entry.Path, "movie.nfo") {
		t.Fatalf("unexpected sidecar %q", res.Sidecar)
	}
}

func TestKeyFirstSidecarWins(t *testing.T) {
	root := t.TempDir()
	entry := makeDir(t, root, "Movie (2020)", map[string]string{
		"a.nfo":      "no identifier here",
		"b.NFO":      "imdb: tt7654321",
		"c.nfo":      "imdb: tt1111111",
		"notes.txt":  "tt9999999",
		"poster.jpg": "tt8888888",
	})
	if got := newExtractor(t).Key(entry); got != "id:tt7654321" {
		t.Fatalf("expected first matching sidecar in name order, got %q", got)
	}
}

func TestKeyToleratesInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	entry := makeDir(t, root, "Movie (2020)", map[string]string{
		"movie.nfo": "\xff\xfe garbage tt0111161 \xc3",
	})
	if got := newExtractor(t).Key(entry); got != "id:tt0111161" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestKeyRespectsSidecarByteLimit(t *testing.T) {
	root := t.TempDir()
	padding := make([]byte, 64)
	for i := range padding {
		padding[i] = ' '
	}
	entry := makeDir(t, root, "Movie (2020)", map[string]string{
		"movie.nfo": string(padding) + "tt1234567",
	})
	ex := newExtractor(t, func(o *identity.Options) { o.MaxSidecarBytes = 32 })
	if got := ex.Key(entry); got != "movie 2020" {
		t.Fatalf("identifier beyond the read limit should be ignored, got %q", got)
	}
}

func TestKeyFallsBackToParsedName(t *testing.T) {
	root := t.TempDir()
	a := makeDir(t, root, "Movie.Title.2020.BluRay", nil)
	b := makeDir(t, root, "Movie Title (2020) WEBRip", map[string]string{"movie.nfo": "no id"})

	ex := newExtractor(t)
	if ex.Key(a) != "movie title 2020" || ex.Key(b) != "movie title 2020" {
		t.Fatalf("expected both to canonicalize to %q, got %q and %q", "movie title 2020", ex.Key(a), ex.Key(b))
	}
	if src := ex.Resolve(a).Source; src != identity.SourceName {
		t.Fatalf("unexpected source %q", src)
	}
}

func TestKeyWithoutYearUsesLowercasedName(t *testing.T) {
	root := t.TempDir()
	entry := makeDir(t, root, "Home.Videos_Collection", nil)
	res := newExtractor(t).Resolve(entry)
	if res.Key != "home.videos_collection" || res.Source != identity.SourceRaw {
		t.Fatalf("unexpected resolution %+v", res)
	}
}

func TestKeyUnreadableSidecarIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of mode")
	}
	root := t.TempDir()
	entry := makeDir(t, root, "Movie (2020)", map[string]string{
		"a.nfo": "tt1000001",
		"b.nfo": "tt2000002",
	})
	if err := os.Chmod(filepath.Join(entry.Path, "a.nfo"), 0o000); err != nil {
		t.Fatal(err)
	}
	if got := newExtractor(t).Key(entry); got != "id:tt2000002" {
		t.Fatalf("expected unreadable sidecar to be skipped, got %q", got)
	}
}

type fixedParser struct{}

func (fixedParser) Parse(string) (string, string, bool) { return "fixed", "1999", true }

func TestCustomNameParser(t *testing.T) {
	root := t.TempDir()
	entry := makeDir(t, root, "whatever", nil)
	ex := newExtractor(t, func(o *identity.Options) { o.Parser = fixedParser{} })
	if got := ex.Key(entry); got != "fixed 1999" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	if _, err := identity.New(identity.Options{IDPattern: "["}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestNameKeysNeverCollideWithIdentifierKeys(t *testing.T) {
	root := t.TempDir()
	named := makeDir(t, root, "id:tt1234567", nil)
	tagged := makeDir(t, root, "Real Movie", map[string]string{"movie.nfo": "tt1234567"})

	ex := newExtractor(t)
	if ex.Key(named) == ex.Key(tagged) {
		t.Fatalf("directory named like an identifier key grouped with %q", ex.Key(tagged))
	}
	if res := ex.Resolve(named); res.Source != identity.SourceRaw {
		t.Fatalf("unexpected source %q", res.Source)
	}
}

func TestKeyFollowsSymlinkedSidecar(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared.nfo")
	if err := os.WriteFile(shared, []byte("<id>tt7654321</id>"), 0o644); err != nil {
		t.Fatal(err)
	}
	entry := makeDir(t, root, "Linked Metadata", nil)
	if err := os.Symlink(shared, filepath.Join(entry.Path, "movie.nfo")); err != nil {
		t.Fatal(err)
	}
	if got := newExtractor(t).Key(entry); got != "id:tt7654321" {
		t.Fatalf("expected identifier from symlinked sidecar, got %q", got)
	}
}
