// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depthsOf(t *testing.T, g *Graph) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, n := range g.Nodes() {
		require.NotNil(t, n.Depth, "node %s has no depth", n.ID)
		out[n.ID] = *n.Depth
	}
	return out
}

func edgePairs(g *Graph) [][2]string {
	var out [][2]string
	for _, e := range g.Edges() {
		out = append(out, [2]string{e.Source, e.Target})
	}
	return out
}

func TestCrawlChainBothDirections(t *testing.T) {
	g := chain(t, "0", "1", "2", "3", "4")

	snap, err := g.Crawl("2", 1, WithReverseDepth(1))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"1": -1, "2": 0, "3": 1}, depthsOf(t, snap))
	assert.ElementsMatch(t, [][2]string{{"1", "2"}, {"2", "3"}}, edgePairs(snap))
	assert.False(t, snap.HasNode("0"))
	assert.False(t, snap.HasNode("4"))

	meta := snap.Meta()
	assert.Equal(t, "2", meta.CrawlRoot)
	require.NotNil(t, meta.CrawlDepth)
	assert.Equal(t, 1, *meta.CrawlDepth)
	require.NotNil(t, meta.ReverseDepth)
	assert.Equal(t, -1, *meta.ReverseDepth)
}

func TestCrawlForwardOnly(t *testing.T) {
	g := chain(t, "0", "1", "2", "3", "4")

	snap, err := g.Crawl("1", 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"1": 0, "2": 1, "3": 2}, depthsOf(t, snap))
	assert.Nil(t, snap.Meta().ReverseDepth)
	assert.True(t, snap.IsCrawl())
}

func TestCrawlDepthZero(t *testing.T) {
	g := chain(t, "0", "1", "2")

	snap, err := g.Crawl("1", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, snap.IDs())
	assert.Zero(t, snap.EdgeCount())
}

func TestCrawlReverseSignIgnored(t *testing.T) {
	g := chain(t, "0", "1", "2")

	a, err := g.Crawl("2", 0, WithReverseDepth(2))
	require.NoError(t, err)
	b, err := g.Crawl("2", 0, WithReverseDepth(-2))
	require.NoError(t, err)

	assert.Equal(t, depthsOf(t, a), depthsOf(t, b))
	assert.Equal(t, map[string]int{"0": -2, "1": -1, "2": 0}, depthsOf(t, a))
}

func TestCrawlSharedCiters(t *testing.T) {
	// R cites X; Y cites R and X. Y is reached backwards from R and is never
	// expanded forwards, so Y -> X is not part of the crawl.
	g := New()
	_, err := g.Create([]string{"R", "X", "Y"}, []Edge{
		{Source: "R", Target: "X", Weight: 0.3},
		{Source: "Y", Target: "R", Weight: 0.4},
		{Source: "Y", Target: "X", Weight: 0.5},
	})
	require.NoError(t, err)

	snap, err := g.Crawl("R", 1, WithReverseDepth(1))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"R": 0, "X": 1, "Y": -1}, depthsOf(t, snap))
	assert.ElementsMatch(t, [][2]string{{"R", "X"}, {"Y", "R"}}, edgePairs(snap))

	// From X both citers sit one hop back; Y -> R is recorded when R is
	// expanded but Y keeps the depth it was first given.
	snap, err = g.Crawl("X", 1, WithReverseDepth(2))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"X": 0, "R": -1, "Y": -1}, depthsOf(t, snap))
	assert.ElementsMatch(t, [][2]string{{"R", "X"}, {"Y", "X"}, {"Y", "R"}}, edgePairs(snap))
}

func TestCrawlCopiesWeights(t *testing.T) {
	g := New()
	base := 0.6
	_, err := g.Create([]string{"A", "B"}, []Edge{
		{Source: "A", Target: "B", Weight: 0.9, BaseWeight: &base},
	})
	require.NoError(t, err)

	snap, err := g.Crawl("A", 1)
	require.NoError(t, err)

	e, ok := snap.Edge("A", "B")
	require.True(t, ok)
	assert.Equal(t, 0.9, e.Weight)
	require.NotNil(t, e.BaseWeight)
	assert.Equal(t, 0.6, *e.BaseWeight)

	require.NoError(t, snap.SetWeight("A", "B", 0.1))
	w, _ := g.Weight("A", "B")
	assert.Equal(t, 0.9, w, "snapshot is independent of its source")
}

func TestCrawlDepthBound(t *testing.T) {
	// A small lattice with shared ancestors and descendants.
	g := New()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	edges := []Edge{
		{Source: "a", Target: "c", Weight: Unscored},
		{Source: "b", Target: "c", Weight: Unscored},
		{Source: "c", Target: "d", Weight: Unscored},
		{Source: "c", Target: "e", Weight: Unscored},
		{Source: "d", Target: "f", Weight: Unscored},
		{Source: "e", Target: "f", Weight: Unscored},
		{Source: "f", Target: "g", Weight: Unscored},
		{Source: "h", Target: "a", Weight: Unscored},
	}
	_, err := g.Create(ids, edges)
	require.NoError(t, err)

	for _, root := range ids {
		for d := 0; d <= 3; d++ {
			for r := 0; r <= 3; r++ {
				snap, err := g.Crawl(root, d, WithReverseDepth(r))
				require.NoError(t, err)
				got := depthsOf(t, snap)
				assert.Equal(t, 0, got[root])
				for id, depth := range got {
					assert.True(t, depth >= -r && depth <= d, "root %s d=%d r=%d: %s at %d", root, d, r, id, depth)
					assert.True(t, g.HasNode(id))
				}
			}
			snap, err := g.Crawl(root, d)
			require.NoError(t, err)
			for id, depth := range depthsOf(t, snap) {
				assert.True(t, depth >= 0 && depth <= d, "root %s d=%d: %s at %d", root, d, id, depth)
			}
		}
	}
}

func TestCrawlErrors(t *testing.T) {
	g := chain(t, "A", "B")

	_, err := g.Crawl("missing", 1)
	assert.ErrorIs(t, err, ErrUnknownRoot)

	_, err = g.Crawl("A", -1)
	assert.Error(t, err)
}
