// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package critical combines edge scores with the aggregate scores of the
// papers they point to, producing the critical index of each citation.
package critical

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownMode is returned for a combination mode other than
// Multiplication or Min.
var ErrUnknownMode = errors.New("unknown combination mode")

// Mode selects how two scores are combined.
type Mode string

const (
	// Multiplication multiplies the two risks, floored at MinRisk.
	Multiplication Mode = "multiplication"
	// Min keeps the smaller risk.
	Min Mode = "min"
)

// MinRisk keeps Multiplication from reporting perfect confidence.
const MinRisk = 0.001

// unscored mirrors graph.Unscored; the combiner does not depend on the graph.
const unscored = -1.0

// ParseMode converts a name such as "multiplication" or "MIN" to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("parsing mode %q: %w", s, ErrUnknownMode)
	}
	return m, nil
}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == Multiplication || m == Min
}

func (m Mode) String() string { return string(m) }

// Combine merges the aggregate score of a cited paper with the score of the
// citing edge. Scores are turned into risks (1 - score), combined, and turned
// back. A node score of -1 means the cited paper has no evidence of its own,
// so the edge score is returned unchanged.
func Combine(nodeScore, edgeScore float64, mode Mode) (float64, error) {
	if !mode.Valid() {
		return 0, fmt.Errorf("combining scores: %w: %q", ErrUnknownMode, string(mode))
	}
	if nodeScore == unscored {
		return edgeScore, nil
	}
	r1 := 1 - nodeScore
	r2 := 1 - edgeScore

	var risk float64
	switch mode {
	case Multiplication:
		risk = math.Max(MinRisk, r1*r2)
	case Min:
		risk = math.Min(r1, r2)
	}
	return 1 - risk, nil
}
