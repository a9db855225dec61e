// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linker attributes a text snippet to one of a paper's references
// by looking for reference author surnames in the snippet. Author-year
// citation markers are matched first; a plain mention of a surname is the
// fallback.
package linker

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// authorSepRe splits a corpus author string into individual authors.
var authorSepRe = regexp.MustCompile(`\s+and\s+|;|\n`)

// Candidate is a reference a snippet may point to.
type Candidate struct {
	PaperID string
	// Authors is the raw corpus author string, e.g. "Bender, Khoa and Nguyen, Dang".
	Authors string
	// Year, when set, must agree with the year of a citation marker.
	Year string
}

// Linker matches snippets against candidate references. The zero value is
// ready to use and safe for concurrent use.
type Linker struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// New returns a Linker.
func New() *Linker {
	return &Linker{}
}

// Surnames extracts author surnames from a corpus author string. "Last,
// First" yields Last; otherwise the last word is taken. Order is kept and
// repeats are dropped.
func Surnames(authors string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range authorSepRe.Split(authors, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var surname string
		if last, _, ok := strings.Cut(part, ","); ok {
			surname = strings.TrimSpace(last)
		} else {
			fields := strings.Fields(part)
			surname = fields[len(fields)-1]
		}
		if surname != "" && !seen[surname] {
			seen[surname] = true
			out = append(out, surname)
		}
	}
	return out
}

// Link attributes snippet to a candidate. The first citation marker in
// snippet that names a candidate decides; failing that, the first candidate
// with a surname appearing in snippet as a whole word, ignoring case.
func (l *Linker) Link(snippet string, candidates []Candidate) (string, bool) {
	for _, marker := range Citations(snippet) {
		for _, c := range candidates {
			if c.cites(marker) {
				return c.PaperID, true
			}
		}
	}
	for _, c := range candidates {
		for _, name := range Surnames(c.Authors) {
			if l.mentions(snippet, name) {
				return c.PaperID, true
			}
		}
	}
	return "", false
}

// mentions reports whether name occurs in text with no letter, digit or
// underscore directly before or after it.
func (l *Linker) mentions(text, name string) bool {
	re := l.pattern(name)
	for _, loc := range re.FindAllStringIndex(text, -1) {
		before, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
		after, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
	}
	return false
}

func (l *Linker) pattern(name string) *regexp.Regexp {
	l.mu.Lock()
	defer l.mu.Unlock()
	if re, ok := l.patterns[name]; ok {
		return re
	}
	if l.patterns == nil {
		l.patterns = make(map[string]*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
	l.patterns[name] = re
	return re
}

// isWordRune treats utf8.RuneError (returned at the ends of text) as a boundary.
func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
