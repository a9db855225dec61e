// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph stores a citation graph: papers as nodes and "cites" edges
// between them, kept acyclic at every observable point.
//
// # Error policy
//
// Structural problems (empty ids, weights outside [-1, 1]) are returned as
// errors and the operation is not applied. Referential problems during
// insertion (an edge whose endpoint is missing, an edge that would close a
// cycle, a duplicate) are expected while ingesting a corpus and are reported
// as an Outcome instead of an error. Lookups that name an element which must
// exist (a missing edge on read or update, an unknown crawl root) return an
// error.
//
// # Thread Safety
//
// Graph has no internal locking. Callers serialize access; the adapters that
// fan out work merge results before touching a Graph.
package graph

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrInvalidNode is returned when a node id is empty.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidEdge is returned when an edge has an empty endpoint or a
	// weight that is NaN or outside [-1, 1].
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrEdgeNotFound is returned by lookups and updates of a missing edge.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownRoot is returned when a crawl starts from a node not in the graph.
	ErrUnknownRoot = errors.New("unknown crawl root")

	// ErrMissingEndpoint is what Outcome.Err reports for RejectedMissingEndpoint.
	ErrMissingEndpoint = errors.New("edge endpoint not in graph")

	// ErrCycle is what Outcome.Err reports for RejectedCycle.
	ErrCycle = errors.New("edge would create a cycle")
)
