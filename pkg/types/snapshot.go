// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Snapshot is the persisted form of a citation graph: metadata, nodes with
// their attributes, and edges with their attributes.
type Snapshot struct {
	Meta  SnapshotMeta   `json:"meta" yaml:"meta"`
	Nodes SnapshotNodes  `json:"nodes" yaml:"nodes"`
	Edges []SnapshotEdge `json:"edges" yaml:"edges"`
}

// SnapshotMeta describes how a snapshot was produced. Unset fields are
// written as null.
type SnapshotMeta struct {
	// CrawlRoot is the paper a crawl started from; nil for a full graph.
	CrawlRoot *string `json:"crawl_root" yaml:"crawl_root"`

	// CrawlDepth is the forward bound of the crawl.
	CrawlDepth *int `json:"crawl_depth" yaml:"crawl_depth"`

	// ReverseDepth is the normalized (non-positive) backward bound, nil when
	// no reverse phase ran.
	ReverseDepth *int `json:"reverse_depth" yaml:"reverse_depth"`

	// CombIndexed reports whether critical indices were combined into edge weights.
	CombIndexed bool `json:"comb_indexed" yaml:"comb_indexed"`
}

// NodeAttrs holds the optional attributes of a snapshot node.
type NodeAttrs struct {
	Depth    *int     `json:"depth,omitempty" yaml:"depth,omitempty"`
	Critical *float64 `json:"critical,omitempty" yaml:"critical,omitempty"`
}

// SnapshotNode pairs a node id with its attributes.
type SnapshotNode struct {
	ID    string
	Attrs NodeAttrs
}

// SnapshotNodes is written as a mapping from node id to attributes. The
// mapping keeps slice order on disk so a reloaded graph has the same node
// order as the one that was stored.
type SnapshotNodes []SnapshotNode

// MarshalJSON writes the nodes as a JSON object in slice order.
func (n SnapshotNodes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, node := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(node.ID)
		if err != nil {
			return nil, fmt.Errorf("encoding node id %q: %w", node.ID, err)
		}
		val, err := json.Marshal(node.Attrs)
		if err != nil {
			return nil, fmt.Errorf("encoding node %q: %w", node.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of node attributes, keeping key order.
func (n *SnapshotNodes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding nodes: %w", err)
	}
	if tok == nil {
		*n = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding nodes: expected object, got %v", tok)
	}

	var nodes SnapshotNodes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding nodes: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding nodes: expected node id, got %v", tok)
		}
		var attrs NodeAttrs
		if err := dec.Decode(&attrs); err != nil {
			return fmt.Errorf("decoding node %q: %w", id, err)
		}
		nodes = append(nodes, SnapshotNode{ID: id, Attrs: attrs})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding nodes: %w", err)
	}
	*n = nodes
	return nil
}

// MarshalYAML writes the nodes as a YAML mapping in slice order.
func (n SnapshotNodes) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, node := range n {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: node.ID}
		val := &yaml.Node{}
		if err := val.Encode(node.Attrs); err != nil {
			return nil, fmt.Errorf("encoding node %q: %w", node.ID, err)
		}
		m.Content = append(m.Content, key, val)
	}
	return m, nil
}

// UnmarshalYAML reads a YAML mapping of node attributes, keeping key order.
func (n *SnapshotNodes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*n = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("decoding nodes: line %d: expected mapping", value.Line)
	}

	nodes := make(SnapshotNodes, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var attrs NodeAttrs
		if val.Kind != yaml.ScalarNode || val.Tag != "!!null" {
			if err := val.Decode(&attrs); err != nil {
				return fmt.Errorf("decoding node %q: %w", key.Value, err)
			}
		}
		nodes = append(nodes, SnapshotNode{ID: key.Value, Attrs: attrs})
	}
	*n = nodes
	return nil
}

// SnapshotEdge is one persisted citation edge.
type SnapshotEdge struct {
	Source string    `json:"source" yaml:"source"`
	Target string    `json:"target" yaml:"target"`
	Attrs  EdgeAttrs `json:"attrs" yaml:"attrs"`
}

// EdgeAttrs holds the scores of a persisted edge. A missing weight reads
// as unscored.
type EdgeAttrs struct {
	Weight     *Score `json:"weight" yaml:"weight"`
	BaseWeight *Score `json:"base_weight,omitempty" yaml:"base_weight,omitempty"`
}

// Score is an edge score. It decodes from numbers and from numeric strings,
// since hand-edited and exported snapshots carry both.
type Score float64

// UnmarshalJSON accepts 0.5 as well as "0.5".
func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Score(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("score %s is not a number", data)
	}
	return s.parse(str)
}

// UnmarshalYAML accepts plain and quoted numeric scalars.
func (s *Score) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: score is not a scalar", value.Line)
	}
	return s.parse(value.Value)
}

func (s *Score) parse(str string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return fmt.Errorf("score %q is not a number", str)
	}
	*s = Score(f)
	return nil
}

// Float returns the score or fallback when s is nil.
func (s *Score) Float(fallback float64) float64 {
	if s == nil {
		return fallback
	}
	return float64(*s)
}

// ScorePtr returns a pointer to f as a Score.
func ScorePtr(f float64) *Score {
	s := Score(f)
	return &s
}
