package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mediadedup/internal/config"
	"mediadedup/internal/fileutil"
	"mediadedup/internal/library"
	"mediadedup/internal/logging"
)

// IDKeyPrefix marks keys built from an embedded identifier.
const IDKeyPrefix = "id:"

// ErrSidecarRead wraps failures reading a sidecar metadata file.
var ErrSidecarRead = errors.New("read sidecar")

// Source records which path produced a key.
type Source string

const (
	SourceID   Source = "id"
	SourceName Source = "name"
	SourceRaw  Source = "raw"
)

// Resolution is the outcome of resolving one directory.
type Resolution struct {
	Key    string
	Source Source
	// Sidecar is the file the identifier came from when Source is SourceID.
	Sidecar string
}

// Options configures an Extractor.
type Options struct {
	IDPattern         string
	SidecarExtensions []string
	MaxSidecarBytes   int64
	Parser            NameParser
	Logger            *slog.Logger
}

// Extractor computes canonical keys for library entries.
type Extractor struct {
	idPattern  *regexp.Regexp
	extensions map[string]struct{}
	maxBytes   int64
	parser     NameParser
	logger     *slog.Logger
}

// New compiles the identifier pattern and prepares an Extractor. A nil Parser
// defaults to YearParser.
func New(opts Options) (*Extractor, error) {
	pattern, err := regexp.Compile(opts.IDPattern)
	if err != nil {
		return nil, fmt.Errorf("compile id pattern %q: %w", opts.IDPattern, err)
	}
	exts := make(map[string]struct{}, len(opts.SidecarExtensions))
	for _, ext := range opts.SidecarExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	parser := opts.Parser
	if parser == nil {
		parser = YearParser{}
	}
	return &Extractor{
		idPattern:  pattern,
		extensions: exts,
		maxBytes:   opts.MaxSidecarBytes,
		parser:     parser,
		logger:     logging.NewComponentLogger(opts.Logger, "identity"),
	}, nil
}

// NewFromConfig builds an Extractor from the [identity] config section.
func NewFromConfig(cfg config.Identity, logger *slog.Logger) (*Extractor, error) {
	return New(Options{
		IDPattern:         cfg.IDPattern,
		SidecarExtensions: cfg.SidecarExtensions,
		MaxSidecarBytes:   cfg.MaxSidecarBytes,
		Logger:            logger,
	})
}

// Key returns the canonical key for entry.
func (e *Extractor) Key(entry library.Entry) string {
	return e.Resolve(entry).Key
}

// Resolve computes the canonical key for entry and reports how it was derived.
func (e *Extractor) Resolve(entry library.Entry) Resolution {
	if id, sidecar, ok := e.findIdentifier(entry); ok {
		e.logger.Debug("identifier found in sidecar",
			logging.String(logging.FieldPath, entry.Path),
			logging.String("sidecar", sidecar),
			logging.String("identifier", id),
		)
		return Resolution{Key: IDKeyPrefix + id, Source: SourceID, Sidecar: sidecar}
	}

	if title, year, ok := e.parser.Parse(entry.Name); ok {
		return Resolution{Key: literalKey(title + " " + year), Source: SourceName}
	}

	e.logger.Debug("no year in directory name; using full name",
		logging.String(logging.FieldPath, entry.Path))
	return Resolution{Key: literalKey(foldName(entry.Name)), Source: SourceRaw}
}

// findIdentifier scans sidecar files in name order and returns the first
// identifier match. The first file containing a match wins.
func (e *Extractor) findIdentifier(entry library.Entry) (string, string, bool) {
	if len(e.extensions) == 0 {
		return "", "", false
	}
	dirents, err := os.ReadDir(entry.Path)
	if err != nil {
		logging.WarnWithContext(e.logger, "cannot list directory for sidecars", "sidecar_list_failed",
			logging.String(logging.FieldPath, entry.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to name-based key"),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
		)
		return "", "", false
	}

	for _, d := range dirents {
		if _, ok := e.extensions[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			continue
		}
		sidecar := filepath.Join(entry.Path, d.Name())
		if !isRegularFile(d, sidecar) {
			continue
		}
		content, err := fileutil.ReadHead(sidecar, e.maxBytes)
		if err != nil {
			logging.WarnWithContext(e.logger, "skipping unreadable sidecar", "sidecar_read_failed",
				logging.String(logging.FieldPath, sidecar),
				logging.Error(fmt.Errorf("%w: %w", ErrSidecarRead, err)),
				logging.String(logging.FieldImpact, "identifier search continues with remaining files"),
			)
			continue
		}
		text := strings.ToValidUTF8(string(content), "�")
		if id := e.idPattern.FindString(text); id != "" {
			return id, sidecar, true
		}
	}
	return "", "", false
}

// isRegularFile reports whether d is a regular file, following symlinks.
func isRegularFile(d fs.DirEntry, path string) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// literalKey keeps name-derived keys out of the identifier namespace. Directory
// names cannot contain a slash, so the escaped form never matches another key.
func literalKey(key string) string {
	if strings.HasPrefix(key, IDKeyPrefix) {
		return "/" + key
	}
	return key
}
