// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurnames(t *testing.T) {
	tests := []struct {
		name    string
		authors string
		want    []string
	}{
		{name: "last comma first", authors: "Bender, Khoa  and\nNguyen, Dang", want: []string{"Bender", "Nguyen"}},
		{name: "first last", authors: "Emily M. Bender and Alexander Koller", want: []string{"Bender", "Koller"}},
		{name: "semicolons", authors: "Smith, J.; Doe, A.; Smith, K.", want: []string{"Smith", "Doe"}},
		{name: "mixed", authors: "Ivanova, Angelina and Stephan Oepen", want: []string{"Ivanova", "Oepen"}},
		{name: "empty", authors: "", want: nil},
		{name: "blank parts", authors: " ; \n and ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surnames(tt.authors))
		})
	}
}

func TestLink(t *testing.T) {
	snippet := "These logical forms are often referred to as English Resource Semantics (ERS; Bender et al., 2015)."

	tests := []struct {
		name       string
		candidates []Candidate
		want       string
		ok         bool
	}{
		{
			name:       "matches surname",
			candidates: []Candidate{{PaperID: "S17-2156", Authors: "Bender, Khoa and\nNguyen, Dang"}},
			want:       "S17-2156",
			ok:         true,
		},
		{
			name: "first candidate wins",
			candidates: []Candidate{
				{PaperID: "P1", Authors: "Copestake, Ann"},
				{PaperID: "P2", Authors: "Emily Bender"},
				{PaperID: "P3", Authors: "Bender, Emily"},
			},
			want: "P2",
			ok:   true,
		},
		{
			name:       "case insensitive",
			candidates: []Candidate{{PaperID: "P1", Authors: "BENDER, E."}},
			want:       "P1",
			ok:         true,
		},
		{
			name:       "whole words only",
			candidates: []Candidate{{PaperID: "P1", Authors: "Bend, A. and Sem, B."}},
			ok:         false,
		},
		{
			name: "no candidates",
			ok:   false,
		},
	}
	l := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Link(snippet, tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinkUnicodeBoundaries(t *testing.T) {
	var l Linker
	cands := []Candidate{{PaperID: "P1", Authors: "Tomašević, Ana"}}

	_, ok := l.Link("as shown by Tomašević (2019)", cands)
	assert.True(t, ok)

	_, ok = l.Link("Tomaševićová reported", cands)
	assert.False(t, ok)

	_, ok = l.Link("the Müller corpus", []Candidate{{PaperID: "P2", Authors: "Hans Müller"}})
	assert.True(t, ok)
}

func TestCitations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Citation
	}{
		{
			name: "et al",
			text: "known as ERS (Bender et al., 2015; Copestake, 2009).",
			want: []Citation{{"Bender", "2015"}, {"Copestake", "2009"}},
		},
		{
			name: "two authors and narrative",
			text: "Smith and Jones, 2019 argue, as Tomašević (2019) and Smith and Jones, 2019 did.",
			want: []Citation{{"Smith", "2019"}, {"Tomašević", "2019"}},
		},
		{name: "none", text: "no citations here in 2015", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Citations(tt.text))
		})
	}
}

func TestLinkPrefersCitationMarkers(t *testing.T) {
	l := New()
	snippet := "Unlike Koller's parser, ERS (Bender et al., 2015) is lexicalized."
	cands := []Candidate{
		{PaperID: "K", Authors: "Koller, Alexander"},
		{PaperID: "B14", Authors: "Bender, Emily", Year: "2014"},
		{PaperID: "B15", Authors: "Bender, Emily", Year: "2015"},
	}

	got, ok := l.Link(snippet, cands)
	assert.True(t, ok)
	assert.Equal(t, "B15", got)

	// Without a matching year the plain mention pass decides.
	got, ok = l.Link(snippet, cands[:2])
	assert.True(t, ok)
	assert.Equal(t, "K", got)
}
