// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import "fmt"

// CrawlOptions configures a crawl.
type CrawlOptions struct {
	// ReverseDepth enables the reverse phase; nil skips it.
	ReverseDepth *int
}

// CrawlOption is a functional option for configuring crawls.
type CrawlOption func(*CrawlOptions)

// WithReverseDepth also walks n hops backwards to papers citing the root.
// The sign of n is ignored.
func WithReverseDepth(n int) CrawlOption {
	return func(o *CrawlOptions) {
		bound := -abs(n)
		o.ReverseDepth = &bound
	}
}

// Crawl extracts the neighborhood of root into a new graph.
//
// The forward phase walks the papers root cites, breadth first, recording
// every outgoing edge of each expanded node; nodes at maxDepth are reached but
// not expanded. The reverse phase walks citing papers down to the negative
// bound, recording edges in their citing direction. Nodes reached by the
// forward phase keep their forward depth. Every node of the result carries a
// depth: 0 for the root, positive forwards, negative backwards.
func (g *Graph) Crawl(root string, maxDepth int, opts ...CrawlOption) (*Graph, error) {
	if !g.HasNode(root) {
		return nil, fmt.Errorf("crawling from %q: %w", root, ErrUnknownRoot)
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("crawling from %q: negative depth %d", root, maxDepth)
	}
	var o CrawlOptions
	for _, opt := range opts {
		opt(&o)
	}

	depths := map[string]int{root: 0}
	order := []string{root}
	var edges []Edge

	type item struct {
		id    string
		depth int
	}

	queue := []item{{root, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range g.succ[cur.id] {
			edges = append(edges, copyEdge(g.edges[edgeKey{cur.id, next}]))
			if _, seen := depths[next]; !seen {
				depths[next] = cur.depth + 1
				order = append(order, next)
				queue = append(queue, item{next, cur.depth + 1})
			}
		}
	}

	if o.ReverseDepth != nil {
		bound := *o.ReverseDepth
		queue = []item{{root, 0}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur.depth <= bound {
				continue
			}
			for _, prev := range g.pred[cur.id] {
				edges = append(edges, copyEdge(g.edges[edgeKey{prev, cur.id}]))
				if _, seen := depths[prev]; !seen {
					depths[prev] = cur.depth - 1
					order = append(order, prev)
					queue = append(queue, item{prev, cur.depth - 1})
				}
			}
		}
	}

	snap := New()
	if _, err := snap.Create(order, edges); err != nil {
		return nil, fmt.Errorf("crawling from %q: %w", root, err)
	}
	depth := maxDepth
	snap.SetMeta(Meta{CrawlRoot: root, CrawlDepth: &depth, ReverseDepth: o.ReverseDepth})
	for id, d := range depths {
		snap.nodes[id].Depth = &d
	}
	return snap, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
