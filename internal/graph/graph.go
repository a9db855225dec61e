// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"math"
)

// Unscored is the edge weight and node critical value meaning "no score yet".
const Unscored = -1.0

// Node is a paper in the graph. Depth is set only in crawl snapshots;
// Critical is set by critical indexing.
type Node struct {
	ID       string
	Depth    *int
	Critical *float64
}

// Edge means Source cites Target. BaseWeight holds the weight an edge had
// before critical indexing replaced it with a combined score.
type Edge struct {
	Source     string
	Target     string
	Weight     float64
	BaseWeight *float64
}

// Meta records how a graph was produced. A full corpus graph has a zero Meta.
type Meta struct {
	CrawlRoot    string
	CrawlDepth   *int
	ReverseDepth *int
}

type edgeKey struct {
	source, target string
}

// Graph is a directed acyclic citation graph. Nodes and edges keep insertion
// order; successor and predecessor lists keep the order their edges were added.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[edgeKey]*Edge
	edgeOrder []edgeKey
	succ      map[string][]string
	pred      map[string][]string
	meta      Meta
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}
}

// AddNode inserts a node. A duplicate id is a no-op reported as
// SkippedDuplicateNode.
func (g *Graph) AddNode(id string) (Outcome, error) {
	if id == "" {
		return 0, fmt.Errorf("adding node: %w: empty id", ErrInvalidNode)
	}
	if _, ok := g.nodes[id]; ok {
		return SkippedDuplicateNode, nil
	}
	g.nodes[id] = &Node{ID: id}
	g.nodeOrder = append(g.nodeOrder, id)
	return Inserted, nil
}

// AddEdge inserts e after checking, in order: structure, endpoints,
// duplicates and cycles. Only structural problems return an error.
func (g *Graph) AddEdge(e Edge) (Outcome, error) {
	if err := validateEdge(e); err != nil {
		return 0, err
	}
	if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
		return RejectedMissingEndpoint, nil
	}
	key := edgeKey{e.Source, e.Target}
	if _, ok := g.edges[key]; ok {
		return SkippedDuplicateEdge, nil
	}
	if g.WouldCreateCycle(e.Source, e.Target) {
		return RejectedCycle, nil
	}

	stored := e
	stored.BaseWeight = copyFloat(e.BaseWeight)
	g.edges[key] = &stored
	g.edgeOrder = append(g.edgeOrder, key)
	g.succ[e.Source] = append(g.succ[e.Source], e.Target)
	g.pred[e.Target] = append(g.pred[e.Target], e.Source)
	return Inserted, nil
}

// Link adds an unscored edge from source to target.
func (g *Graph) Link(source, target string) (Outcome, error) {
	return g.AddEdge(Edge{Source: source, Target: target, Weight: Unscored})
}

// Create adds every node and then every edge, collecting non-inserted
// outcomes in the report. A structural error aborts the construction; nodes
// and edges added before it stay in the graph.
func (g *Graph) Create(nodes []string, edges []Edge) (Report, error) {
	var report Report
	for _, id := range nodes {
		o, err := g.AddNode(id)
		if err != nil {
			return report, fmt.Errorf("creating graph: %w", err)
		}
		report.record(o, Issue{Node: id})
	}
	for _, e := range edges {
		o, err := g.AddEdge(e)
		if err != nil {
			return report, fmt.Errorf("creating graph: %w", err)
		}
		report.record(o, Issue{Source: e.Source, Target: e.Target})
	}
	return report, nil
}

// References returns the papers id cites, in the order the edges were added.
func (g *Graph) References(id string) []string {
	return append([]string(nil), g.succ[id]...)
}

// Citers returns the papers citing id, in the order the edges were added.
func (g *Graph) Citers(id string) []string {
	return append([]string(nil), g.pred[id]...)
}

// Weight returns the weight of the edge source -> target.
func (g *Graph) Weight(source, target string) (float64, error) {
	e, ok := g.edges[edgeKey{source, target}]
	if !ok {
		return 0, fmt.Errorf("reading weight %s -> %s: %w", source, target, ErrEdgeNotFound)
	}
	return e.Weight, nil
}

// SetWeight replaces the weight of an existing edge and drops its base
// weight, so the next indexing pass combines the new score.
func (g *Graph) SetWeight(source, target string, w float64) error {
	e, ok := g.edges[edgeKey{source, target}]
	if !ok {
		return fmt.Errorf("setting weight %s -> %s: %w", source, target, ErrEdgeNotFound)
	}
	if !inDomain(w) {
		return fmt.Errorf("setting weight %s -> %s: %w: weight %v outside [-1, 1]", source, target, ErrInvalidEdge, w)
	}
	e.Weight = w
	e.BaseWeight = nil
	return nil
}

// SetEdgeIndex stores a combined weight and the base weight it was derived
// from. The combined weight may not be Unscored.
func (g *Graph) SetEdgeIndex(source, target string, base, combined float64) error {
	e, ok := g.edges[edgeKey{source, target}]
	if !ok {
		return fmt.Errorf("indexing %s -> %s: %w", source, target, ErrEdgeNotFound)
	}
	if !inDomain(base) || !inDomain(combined) {
		return fmt.Errorf("indexing %s -> %s: %w: weights %v/%v outside [-1, 1]", source, target, ErrInvalidEdge, base, combined)
	}
	if combined == Unscored {
		return fmt.Errorf("indexing %s -> %s: %w: combined weight is unscored", source, target, ErrInvalidEdge)
	}
	e.BaseWeight = &base
	e.Weight = combined
	return nil
}

// Edge returns a copy of the edge source -> target.
func (g *Graph) Edge(source, target string) (Edge, bool) {
	e, ok := g.edges[edgeKey{source, target}]
	if !ok {
		return Edge{}, false
	}
	return copyEdge(e), true
}

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, copyEdge(g.edges[k]))
	}
	return out
}

// Uncited returns the nodes no other node cites, in insertion order.
func (g *Graph) Uncited() []string {
	var out []string
	for _, id := range g.nodeOrder {
		if len(g.pred[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, copyNode(g.nodes[id]))
	}
	return out
}

// IDs returns all node ids in insertion order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.nodeOrder...)
}

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge source -> target exists.
func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edges[edgeKey{source, target}]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodeOrder) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// Meta returns the crawl metadata.
func (g *Graph) Meta() Meta {
	m := g.meta
	m.CrawlDepth = copyInt(m.CrawlDepth)
	m.ReverseDepth = copyInt(m.ReverseDepth)
	return m
}

// SetMeta replaces the crawl metadata.
func (g *Graph) SetMeta(m Meta) {
	m.CrawlDepth = copyInt(m.CrawlDepth)
	m.ReverseDepth = copyInt(m.ReverseDepth)
	g.meta = m
}

// IsCrawl reports whether the graph is a crawl snapshot.
func (g *Graph) IsCrawl() bool { return g.meta.CrawlRoot != "" }

// SetDepth sets the crawl depth of a node.
func (g *Graph) SetDepth(id string, depth int) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("setting depth of %s: %w", id, ErrInvalidNode)
	}
	n.Depth = &depth
	return nil
}

// SetCritical sets the critical index of a node.
func (g *Graph) SetCritical(id string, critical float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("setting critical of %s: %w", id, ErrInvalidNode)
	}
	if !inDomain(critical) {
		return fmt.Errorf("setting critical of %s: %w: %v outside [-1, 1]", id, ErrInvalidNode, critical)
	}
	n.Critical = &critical
	return nil
}

// Indexed reports whether critical indexing has been applied: every edge
// carries a base weight. A graph without edges is indexed once every node has
// a critical index. An empty graph is never indexed.
func (g *Graph) Indexed() bool {
	if len(g.edgeOrder) == 0 {
		if len(g.nodeOrder) == 0 {
			return false
		}
		for _, id := range g.nodeOrder {
			if g.nodes[id].Critical == nil {
				return false
			}
		}
		return true
	}
	for _, k := range g.edgeOrder {
		if g.edges[k].BaseWeight == nil {
			return false
		}
	}
	return true
}

func validateEdge(e Edge) error {
	if e.Source == "" || e.Target == "" {
		return fmt.Errorf("adding edge %q -> %q: %w: empty endpoint", e.Source, e.Target, ErrInvalidEdge)
	}
	if !inDomain(e.Weight) {
		return fmt.Errorf("adding edge %s -> %s: %w: weight %v outside [-1, 1]", e.Source, e.Target, ErrInvalidEdge, e.Weight)
	}
	if e.BaseWeight != nil && !inDomain(*e.BaseWeight) {
		return fmt.Errorf("adding edge %s -> %s: %w: base weight %v outside [-1, 1]", e.Source, e.Target, ErrInvalidEdge, *e.BaseWeight)
	}
	return nil
}

func inDomain(w float64) bool {
	return !math.IsNaN(w) && w >= -1 && w <= 1
}

func copyEdge(e *Edge) Edge {
	c := *e
	c.BaseWeight = copyFloat(e.BaseWeight)
	return c
}

func copyNode(n *Node) Node {
	return Node{ID: n.ID, Depth: copyInt(n.Depth), Critical: copyFloat(n.Critical)}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
