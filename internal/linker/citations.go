// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"regexp"
	"strings"
)

// authorYearRe matches author-year citations such as "Bender et al., 2015",
// "Smith and Jones, 2019" or "Tomašević (2019)". Only the first author is
// captured.
var authorYearRe = regexp.MustCompile(`(\p{Lu}[\p{L}'’-]+)(?:\s+et\s+al\.?|\s+(?:and|&)\s+\p{Lu}[\p{L}'’-]+)?,?\s*\(?((?:19|20)\d{2})`)

// Citation is an author-year citation marker found in text.
type Citation struct {
	Surname string
	Year    string
}

// Citations returns the author-year citation markers of text in order of
// appearance. Repeated markers are reported once.
func Citations(text string) []Citation {
	var out []Citation
	seen := map[Citation]bool{}
	for _, m := range authorYearRe.FindAllStringSubmatch(text, -1) {
		c := Citation{Surname: m[1], Year: m[2]}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// cites reports whether marker names candidate c: the surname matches one
// of c's authors and, when c has a year, the years agree.
func (c Candidate) cites(marker Citation) bool {
	if c.Year != "" && c.Year != marker.Year {
		return false
	}
	for _, name := range Surnames(c.Authors) {
		if strings.EqualFold(name, marker.Surname) {
			return true
		}
	}
	return false
}
