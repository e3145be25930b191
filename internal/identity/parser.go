package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NameParser extracts a normalized title and a release year from a directory
// name. ok is false when the name carries no usable year.
type NameParser interface {
	Parse(name string) (title, year string, ok bool)
}

// YearParser treats the text before the first plausible release year as the
// title. A year is a standalone run of exactly four digits between 1880 and
// 2099; candidates that would leave an empty title (a name starting with a
// year) are skipped in favour of a later one.
type YearParser struct{}

var digitRun = regexp.MustCompile(`[0-9]+`)

const (
	minYear = 1880
	maxYear = 2099
)

func (YearParser) Parse(name string) (string, string, bool) {
	for _, loc := range digitRun.FindAllStringIndex(name, -1) {
		if loc[1]-loc[0] != 4 {
			continue
		}
		year := name[loc[0]:loc[1]]
		if !plausibleYear(year) {
			continue
		}
		title := NormalizeTitle(name[:loc[0]])
		if title == "" {
			continue
		}
		return title, year, true
	}
	return "", "", false
}

func plausibleYear(year string) bool {
	n := 0
	for _, r := range year {
		n = n*10 + int(r-'0')
	}
	return n >= minYear && n <= maxYear
}

// NormalizeTitle composes the text to NFC, collapses separator punctuation
// and whitespace runs into single spaces, trims, and lowercases.
func NormalizeTitle(title string) string {
	title = norm.NFC.String(title)
	var b strings.Builder
	b.Grow(len(title))
	pendingSpace := false
	for _, r := range title {
		if isSeparator(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}

func isSeparator(r rune) bool {
	switch r {
	case '.', '_', '-', '(', ')', '[', ']', '{', '}', ',':
		return true
	}
	return unicode.IsSpace(r)
}

// foldName is the raw fallback key: NFC composed and lowercased, otherwise untouched.
func foldName(name string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(name))
}
