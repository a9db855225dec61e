// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snippet finds the passages of a paper that most likely state a
// given argument.
package snippet

import (
	"regexp"
	"strings"
	"unicode"
)

// sentenceEndRe matches terminal punctuation, optional closing quotes or
// brackets, and the whitespace after them.
var sentenceEndRe = regexp.MustCompile(`[.!?]+["'”’)\]]*\s+`)

// abbreviations never end a sentence.
var abbreviations = map[string]bool{
	"al": true, "e.g": true, "i.e": true, "etc": true, "cf": true, "vs": true,
	"fig": true, "figs": true, "eq": true, "sec": true, "tab": true, "no": true,
	"dr": true, "mr": true, "ms": true, "prof": true, "approx": true, "resp": true,
}

// Chunk is a window of consecutive sentences.
type Chunk struct {
	Text      string
	Sentences []string
	// Start and End are the indices of the first and last sentence.
	Start int
	End   int
}

// Sentences splits text into sentences on terminal punctuation, keeping
// common abbreviations and single-letter initials attached.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if text[loc[0]] == '.' && isAbbreviation(text[start:loc[0]]) {
			continue
		}
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// isAbbreviation reports whether the word before a period is an
// abbreviation or an initial.
func isAbbreviation(before string) bool {
	i := strings.LastIndexAny(before, " \t\n(")
	word := []rune(before[i+1:])
	if len(word) == 1 && unicode.IsLetter(word[0]) {
		return true
	}
	return abbreviations[strings.ToLower(string(word))]
}

// ChunkText splits text into windows of size sentences, starting a new
// window every stride sentences. Stride 0 uses size-1 so that consecutive
// windows overlap by one sentence. The last window ends at the last sentence.
func ChunkText(text string, size, stride int) []Chunk {
	if size < 1 {
		size = 1
	}
	if stride < 1 {
		stride = max(1, size-1)
	}

	sents := Sentences(text)
	var chunks []Chunk
	for i := 0; i < len(sents); i += stride {
		end := min(i+size, len(sents))
		window := sents[i:end]
		chunks = append(chunks, Chunk{
			Text:      strings.Join(window, " "),
			Sentences: window,
			Start:     i,
			End:       end - 1,
		})
		if i+size >= len(sents) {
			break
		}
	}
	return chunks
}
