// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"io"

	"github.com/pdiddy/citeside/internal/graph"
)

// BuildSummary reports what BuildGraph did with each reference.
type BuildSummary struct {
	Papers     int
	Edges      int
	External   int
	Duplicates int
	Rejected   []graph.Issue
}

// Total returns the number of references examined.
func (s BuildSummary) Total() int {
	return s.Edges + s.External + s.Duplicates + len(s.Rejected)
}

// HasFailures reports whether any reference was rejected.
func (s BuildSummary) HasFailures() bool {
	return len(s.Rejected) > 0
}

// BuildGraph adds every paper of p as a node and then an unscored edge for
// each reference to another paper of p. References to papers outside p are
// counted as external. Rejected edges are written to w and collected in the
// summary.
func BuildGraph(p Provider, w io.Writer) (*graph.Graph, BuildSummary, error) {
	var summary BuildSummary
	g := graph.New()

	ids := p.IDs()
	for _, id := range ids {
		o, err := g.AddNode(id)
		if err != nil {
			return nil, summary, fmt.Errorf("building graph: %w", err)
		}
		if o == graph.Inserted {
			summary.Papers++
		}
	}

	for _, id := range ids {
		for _, ref := range p.References(id) {
			if !g.HasNode(ref) {
				summary.External++
				continue
			}
			o, err := g.Link(id, ref)
			if err != nil {
				return nil, summary, fmt.Errorf("building graph: %w", err)
			}
			switch {
			case o == graph.Inserted:
				summary.Edges++
			case o.Skipped():
				summary.Duplicates++
			default:
				issue := graph.Issue{Outcome: o, Source: id, Target: ref}
				summary.Rejected = append(summary.Rejected, issue)
				fmt.Fprintf(w, "  %s\n", issue)
			}
		}
	}
	return g, summary, nil
}
