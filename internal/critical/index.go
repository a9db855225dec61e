// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package critical

import (
	"fmt"
	"math"

	"github.com/pdiddy/citeside/internal/graph"
)

// Status describes what BuildIndex did.
type Status int

const (
	// StatusIndexed means node criticals and combined edge weights were written.
	StatusIndexed Status = iota
	// StatusAlreadyIndexed means the graph was already indexed; see graph.Indexed.
	StatusAlreadyIndexed
	// StatusUnscored means at least one edge is unscored; nothing was written.
	StatusUnscored
)

func (s Status) String() string {
	switch s {
	case StatusIndexed:
		return "indexed"
	case StatusAlreadyIndexed:
		return "already indexed"
	case StatusUnscored:
		return "unscored edges"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result reports the outcome of BuildIndex.
type Result struct {
	Status Status
	// Unscored lists the edges that blocked indexing.
	Unscored []graph.Edge
	// Nodes and Edges count what was written for StatusIndexed.
	Nodes int
	Edges int
}

// BuildIndex computes critical indices over g in place.
//
// Every node gets a critical value: the mean score of its outgoing edges, or
// -1 when it cites nothing. Every edge then keeps its score as base weight and
// takes Combine(critical(target), base) as its weight. Indexing is all or
// nothing: an unknown mode returns an error and an unscored edge returns
// StatusUnscored, both leaving g untouched. A graph whose edges all carry
// base weights is reported as StatusAlreadyIndexed. Edges added after a pass
// have no base weight, so the next call recomputes using existing base
// weights as the scores of previously indexed edges.
func BuildIndex(g *graph.Graph, mode Mode) (Result, error) {
	if !mode.Valid() {
		return Result{}, fmt.Errorf("building critical index: %w: %q", ErrUnknownMode, string(mode))
	}

	edges := g.Edges()
	var unscoredEdges []graph.Edge
	for _, e := range edges {
		if score(e) == unscored {
			unscoredEdges = append(unscoredEdges, e)
		}
	}
	if len(unscoredEdges) > 0 {
		return Result{Status: StatusUnscored, Unscored: unscoredEdges}, nil
	}
	if g.Indexed() {
		return Result{Status: StatusAlreadyIndexed}, nil
	}

	// Pass 1: node criticals from the edge scores as they were before this pass.
	crits := make(map[string]float64, g.Len())
	sums := make(map[string]float64, g.Len())
	counts := make(map[string]int, g.Len())
	for _, e := range edges {
		sums[e.Source] += score(e)
		counts[e.Source]++
	}
	ids := g.IDs()
	for _, id := range ids {
		c := unscored
		if n := counts[id]; n > 0 {
			c = sums[id] / float64(n)
		}
		crits[id] = c
	}

	// Compute every combined weight before writing so a failure leaves g untouched.
	combined := make([]float64, len(edges))
	for i, e := range edges {
		w, err := Combine(crits[e.Target], score(e), mode)
		if err != nil {
			return Result{}, fmt.Errorf("building critical index: %w", err)
		}
		combined[i] = clamp(w)
	}

	// Pass 2: write.
	for _, id := range ids {
		if err := g.SetCritical(id, crits[id]); err != nil {
			return Result{}, fmt.Errorf("building critical index: %w", err)
		}
	}
	for i, e := range edges {
		if err := g.SetEdgeIndex(e.Source, e.Target, score(e), combined[i]); err != nil {
			return Result{}, fmt.Errorf("building critical index: %w", err)
		}
	}
	return Result{Status: StatusIndexed, Nodes: len(ids), Edges: len(edges)}, nil
}

// score is the edge's own score: its base weight once indexed, else its weight.
func score(e graph.Edge) float64 {
	if e.BaseWeight != nil {
		return *e.BaseWeight
	}
	return e.Weight
}

// clamp keeps combined weights inside the edge weight domain and off the
// unscored sentinel. Scores below zero can push a combined risk past 1.
func clamp(w float64) float64 {
	switch {
	case w <= unscored:
		return math.Nextafter(unscored, 0)
	case w > 1:
		return 1
	default:
		return w
	}
}
