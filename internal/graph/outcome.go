// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import "fmt"

// Outcome is the result of a single AddNode or AddEdge call.
type Outcome int

const (
	// Inserted means the node or edge was added.
	Inserted Outcome = iota
	// SkippedDuplicateNode means a node with the id already existed.
	SkippedDuplicateNode
	// SkippedDuplicateEdge means the edge already existed; its weight is unchanged.
	SkippedDuplicateEdge
	// RejectedMissingEndpoint means the source or target node is not in the graph.
	RejectedMissingEndpoint
	// RejectedCycle means the edge would close a directed cycle.
	RejectedCycle
)

var outcomeNames = map[Outcome]string{
	Inserted:                "inserted",
	SkippedDuplicateNode:    "skipped duplicate node",
	SkippedDuplicateEdge:    "skipped duplicate edge",
	RejectedMissingEndpoint: "rejected missing endpoint",
	RejectedCycle:           "rejected cycle",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Skipped reports whether the call was a no-op on a duplicate.
func (o Outcome) Skipped() bool {
	return o == SkippedDuplicateNode || o == SkippedDuplicateEdge
}

// Rejected reports whether an edge was refused to keep the graph consistent.
func (o Outcome) Rejected() bool {
	return o == RejectedMissingEndpoint || o == RejectedCycle
}

// Err converts a rejection into ErrMissingEndpoint or ErrCycle for callers
// that treat rejections as failures. Inserted and skipped outcomes return nil.
func (o Outcome) Err() error {
	switch o {
	case RejectedMissingEndpoint:
		return ErrMissingEndpoint
	case RejectedCycle:
		return ErrCycle
	default:
		return nil
	}
}

// Issue records one call of a bulk construction that did not insert.
type Issue struct {
	Outcome Outcome
	// Node is set for node outcomes.
	Node string
	// Source and Target are set for edge outcomes.
	Source string
	Target string
}

func (i Issue) String() string {
	if i.Node != "" {
		return fmt.Sprintf("%s: %s", i.Outcome, i.Node)
	}
	return fmt.Sprintf("%s: %s -> %s", i.Outcome, i.Source, i.Target)
}

// Report summarizes a bulk construction.
type Report struct {
	NodesAdded int
	EdgesAdded int
	Issues     []Issue
}

// Skipped returns the number of duplicate nodes and edges.
func (r Report) Skipped() int {
	n := 0
	for _, i := range r.Issues {
		if i.Outcome.Skipped() {
			n++
		}
	}
	return n
}

// Rejected returns the issues for edges that were refused.
func (r Report) Rejected() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Outcome.Rejected() {
			out = append(out, i)
		}
	}
	return out
}

// HasRejections reports whether any edge was refused.
func (r Report) HasRejections() bool {
	return len(r.Rejected()) > 0
}

func (r *Report) record(o Outcome, issue Issue) {
	switch {
	case o != Inserted:
		issue.Outcome = o
		r.Issues = append(r.Issues, issue)
	case issue.Node != "":
		r.NodesAdded++
	default:
		r.EdgesAdded++
	}
}
