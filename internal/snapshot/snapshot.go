// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists citation graphs as JSON or YAML documents and
// restores them, re-checking acyclicity and references on the way in.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citeside/internal/graph"
	"github.com/pdiddy/citeside/pkg/types"
)

// ErrMissingDepth is returned when a crawl snapshot has a node without a depth.
var ErrMissingDepth = errors.New("crawl node has no depth")

// FormatFor picks the encoding for path from its extension, falling back to
// fallback (or JSON when fallback is empty).
func FormatFor(path string, fallback types.SnapshotFormat) types.SnapshotFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.FormatYAML
	case ".json":
		return types.FormatJSON
	}
	if fallback == "" {
		return types.FormatJSON
	}
	return fallback
}

// Build converts g into its persisted form.
func Build(g *graph.Graph) types.Snapshot {
	meta := g.Meta()
	snap := types.Snapshot{
		Meta: types.SnapshotMeta{
			CrawlDepth:   meta.CrawlDepth,
			ReverseDepth: meta.ReverseDepth,
			CombIndexed:  g.Indexed(),
		},
		Nodes: make(types.SnapshotNodes, 0, g.Len()),
		Edges: make([]types.SnapshotEdge, 0, g.EdgeCount()),
	}
	if meta.CrawlRoot != "" {
		root := meta.CrawlRoot
		snap.Meta.CrawlRoot = &root
	}
	for _, n := range g.Nodes() {
		snap.Nodes = append(snap.Nodes, types.SnapshotNode{
			ID:    n.ID,
			Attrs: types.NodeAttrs{Depth: n.Depth, Critical: n.Critical},
		})
	}
	for _, e := range g.Edges() {
		attrs := types.EdgeAttrs{Weight: types.ScorePtr(e.Weight)}
		if e.BaseWeight != nil {
			attrs.BaseWeight = types.ScorePtr(*e.BaseWeight)
		}
		snap.Edges = append(snap.Edges, types.SnapshotEdge{Source: e.Source, Target: e.Target, Attrs: attrs})
	}
	return snap
}

// Restore rebuilds a graph from its persisted form. Edges go through the
// same checks as any insertion; the report lists what was skipped or
// rejected. Missing weights read as unscored.
func Restore(snap types.Snapshot) (*graph.Graph, graph.Report, error) {
	ids := make([]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		ids = append(ids, n.ID)
	}
	edges := make([]graph.Edge, 0, len(snap.Edges))
	for _, se := range snap.Edges {
		e := graph.Edge{
			Source: se.Source,
			Target: se.Target,
			Weight: se.Attrs.Weight.Float(graph.Unscored),
		}
		if se.Attrs.BaseWeight != nil {
			base := float64(*se.Attrs.BaseWeight)
			e.BaseWeight = &base
		}
		edges = append(edges, e)
	}

	g := graph.New()
	report, err := g.Create(ids, edges)
	if err != nil {
		return nil, report, fmt.Errorf("restoring snapshot: %w", err)
	}

	var meta graph.Meta
	if snap.Meta.CrawlRoot != nil {
		meta.CrawlRoot = *snap.Meta.CrawlRoot
	}
	meta.CrawlDepth = snap.Meta.CrawlDepth
	meta.ReverseDepth = snap.Meta.ReverseDepth
	g.SetMeta(meta)

	if meta.CrawlRoot != "" && !g.HasNode(meta.CrawlRoot) {
		return nil, report, fmt.Errorf("restoring snapshot: %w: %q", graph.ErrUnknownRoot, meta.CrawlRoot)
	}
	for _, n := range snap.Nodes {
		if n.Attrs.Critical != nil {
			if err := g.SetCritical(n.ID, *n.Attrs.Critical); err != nil {
				return nil, report, fmt.Errorf("restoring snapshot: %w", err)
			}
		}
		depth := n.Attrs.Depth
		if meta.CrawlRoot != "" {
			switch {
			case n.ID == meta.CrawlRoot:
				zero := 0
				depth = &zero
			case depth == nil:
				return nil, report, fmt.Errorf("restoring snapshot: %w: %q", ErrMissingDepth, n.ID)
			}
		}
		if depth != nil {
			if err := g.SetDepth(n.ID, *depth); err != nil {
				return nil, report, fmt.Errorf("restoring snapshot: %w", err)
			}
		}
	}
	return g, report, nil
}

// Encode writes g to w in the given format.
func Encode(w io.Writer, g *graph.Graph, format types.SnapshotFormat) error {
	snap := Build(g)
	switch format {
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case types.FormatJSON, "":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("encoding snapshot: unknown format %q", format)
	}
}

// Decode reads a snapshot in the given format from r and restores it.
func Decode(r io.Reader, format types.SnapshotFormat) (*graph.Graph, graph.Report, error) {
	var snap types.Snapshot
	switch format {
	case types.FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
			return nil, graph.Report{}, fmt.Errorf("parsing YAML snapshot: %w", err)
		}
	case types.FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, graph.Report{}, fmt.Errorf("parsing JSON snapshot: %w", err)
		}
	default:
		return nil, graph.Report{}, fmt.Errorf("decoding snapshot: unknown format %q", format)
	}
	return Restore(snap)
}

// Store writes g to path, as YAML for .yaml/.yml paths and JSON otherwise.
// Parent directories are created as needed.
func Store(g *graph.Graph, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, g, FormatFor(path, types.FormatJSON)); err != nil {
		return fmt.Errorf("storing %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads the snapshot at path and rebuilds its graph.
func Load(path string) (*graph.Graph, graph.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	g, report, err := Decode(f, FormatFor(path, types.FormatJSON))
	if err != nil {
		return nil, report, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, report, nil
}
