// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entail judges whether a text snippet supports or contradicts an
// argument and turns the judgment into an edge score.
package entail

import (
	"context"
	"errors"
	"math"
	"sort"
)

// ErrNoScores is returned when a model reply carries no usable label scores.
var ErrNoScores = errors.New("no label scores in reply")

// Label is an entailment verdict.
type Label string

const (
	Supports    Label = "SUPPORTS"
	Contradicts Label = "CONTRADICTS"
	Unknown     Label = "UNKNOWN"
	// Undetermined means the two best labels were too close to call.
	Undetermined Label = "UNDETERMINED"
)

// Labels are the verdicts a model may return, in prompt order.
var Labels = []Label{Supports, Contradicts, Unknown}

// Judgment is the verdict on one snippet.
type Judgment struct {
	Label Label
	// Confidence is the normalized probability of the best label.
	Confidence float64
	// Scores holds the normalized probability of every label.
	Scores map[Label]float64
}

// Scorer judges whether snippet entails argument.
type Scorer interface {
	Judge(ctx context.Context, argument, snippet string) (Judgment, error)
}

// Decide normalizes raw label probabilities and picks the best label. When
// the best two differ by less than margin the label is Undetermined and the
// confidence is still the best probability.
func Decide(raw map[Label]float64, margin float64) (Judgment, error) {
	scores := make(map[Label]float64, len(Labels))
	total := 0.0
	for _, l := range Labels {
		p := raw[l]
		if math.IsNaN(p) || p < 0 {
			p = 0
		}
		scores[l] = p
		total += p
	}
	if total == 0 {
		return Judgment{}, ErrNoScores
	}
	for l := range scores {
		scores[l] /= total
	}

	ranked := append([]Label(nil), Labels...)
	sort.SliceStable(ranked, func(i, j int) bool { return scores[ranked[i]] > scores[ranked[j]] })

	j := Judgment{Label: ranked[0], Confidence: scores[ranked[0]], Scores: scores}
	if scores[ranked[0]]-scores[ranked[1]] < margin {
		j.Label = Undetermined
	}
	return j, nil
}

// CritIndex converts a judgment into an edge score: the confidence that the
// snippet supports the argument. Unknown and undetermined judgments are
// unscored (-1).
func CritIndex(j Judgment) float64 {
	switch j.Label {
	case Supports:
		return j.Confidence
	case Contradicts:
		return 1 - j.Confidence
	default:
		return -1
	}
}
