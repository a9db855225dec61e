// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads paper records and turns them into the full citation graph.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citeside/pkg/types"
)

// Provider supplies paper ids and the ids each paper cites.
type Provider interface {
	IDs() []string
	References(id string) []string
}

// Corpus is an in-memory set of papers keyed by id, in load order.
type Corpus struct {
	papers     map[string]types.Paper
	order      []string
	duplicates int
}

// New builds a corpus from papers. The first paper with a given id wins.
func New(papers []types.Paper) *Corpus {
	c := &Corpus{papers: make(map[string]types.Paper, len(papers))}
	for _, p := range papers {
		if _, ok := c.papers[p.ID]; ok {
			c.duplicates++
			continue
		}
		c.papers[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// Load parses the corpus files concurrently and merges them in argument
// order. Files ending in .jsonl hold one JSON paper per line, .yaml/.yml
// files a YAML list, anything else a JSON array.
func Load(ctx context.Context, paths ...string) (*Corpus, error) {
	shards := make([][]types.Paper, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			papers, err := readFile(path)
			if err != nil {
				return err
			}
			shards[i] = papers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []types.Paper
	for _, shard := range shards {
		all = append(all, shard...)
	}
	return New(all), nil
}

func readFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	var papers []types.Paper
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		papers, err = parseJSONLines(data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &papers)
	default:
		err = json.Unmarshal(data, &papers)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, p := range papers {
		if p.ID == "" {
			return nil, fmt.Errorf("parsing %s: record %d has no paper_id", path, i+1)
		}
	}
	return papers, nil
}

func parseJSONLines(data []byte) ([]types.Paper, error) {
	var papers []types.Paper
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var p types.Paper
		if err := json.Unmarshal(text, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		papers = append(papers, p)
	}
	return papers, sc.Err()
}

// IDs returns paper ids in load order.
func (c *Corpus) IDs() []string {
	return append([]string(nil), c.order...)
}

// References returns the ids a paper cites, as listed in the corpus.
func (c *Corpus) References(id string) []string {
	return append([]string(nil), c.papers[id].OutgoingCitations...)
}

// Paper returns the record for id.
func (c *Corpus) Paper(id string) (types.Paper, bool) {
	p, ok := c.papers[id]
	return p, ok
}

// Has reports whether id is in the corpus.
func (c *Corpus) Has(id string) bool {
	_, ok := c.papers[id]
	return ok
}

// Len returns the number of distinct papers.
func (c *Corpus) Len() int { return len(c.order) }

// Duplicates returns how many records repeated an earlier id.
func (c *Corpus) Duplicates() int { return c.duplicates }
