// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package critical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citeside/internal/graph"
)

const eps = 1e-9

func TestCombineSentinel(t *testing.T) {
	for _, mode := range []Mode{Multiplication, Min} {
		for _, w := range []float64{-1, -0.5, 0, 0.3, 0.999, 1} {
			got, err := Combine(-1, w, mode)
			require.NoError(t, err)
			assert.Equal(t, w, got, "mode %s w %v", mode, w)
		}
	}
}

func TestCombineMultiplication(t *testing.T) {
	grid := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 0.999, 1}
	for _, x := range grid {
		for _, y := range grid {
			got, err := Combine(x, y, Multiplication)
			require.NoError(t, err)
			want := 1 - math.Max(0.001, (1-x)*(1-y))
			assert.InDelta(t, want, got, eps, "x=%v y=%v", x, y)
			assert.Less(t, got, 1.0, "floor keeps the result below 1")

			swapped, err := Combine(y, x, Multiplication)
			require.NoError(t, err)
			assert.InDelta(t, got, swapped, eps, "commutative")
		}
	}
}

func TestCombineMin(t *testing.T) {
	tests := []struct {
		node, edge, want float64
	}{
		{0.6, 0.8, 0.8},
		{0.8, 0.6, 0.8},
		{0, 0, 0},
		{1, 0.2, 1},
	}
	for _, tt := range tests {
		got, err := Combine(tt.node, tt.edge, Min)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, eps)
	}
}

func TestCombineUnknownMode(t *testing.T) {
	_, err := Combine(0.5, 0.5, Mode("max"))
	assert.ErrorIs(t, err, ErrUnknownMode)

	// The mode is checked before the sentinel short-circuit.
	_, err = Combine(-1, 0.5, Mode("max"))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("MULTIPLICATION")
	require.NoError(t, err)
	assert.Equal(t, Multiplication, m)

	m, err = ParseMode(" min ")
	require.NoError(t, err)
	assert.Equal(t, Min, m)

	_, err = ParseMode("average")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func buildGraph(t *testing.T, nodes []string, edges []graph.Edge) *graph.Graph {
	t.Helper()
	g := graph.New()
	report, err := g.Create(nodes, edges)
	require.NoError(t, err)
	require.False(t, report.HasRejections())
	return g
}

func criticalOf(t *testing.T, g *graph.Graph, id string) float64 {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok)
	require.NotNil(t, n.Critical, "node %s has no critical", id)
	return *n.Critical
}

func TestBuildIndexChain(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: 0.6},
	})

	res, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	assert.Equal(t, StatusIndexed, res.Status)
	assert.Equal(t, 3, res.Nodes)
	assert.Equal(t, 2, res.Edges)

	assert.Equal(t, -1.0, criticalOf(t, g, "C"))
	assert.InDelta(t, 0.6, criticalOf(t, g, "B"), eps)
	assert.InDelta(t, 0.8, criticalOf(t, g, "A"), eps)

	bc, _ := g.Edge("B", "C")
	assert.InDelta(t, 0.6, bc.Weight, eps)
	require.NotNil(t, bc.BaseWeight)
	assert.InDelta(t, 0.6, *bc.BaseWeight, eps)

	ab, _ := g.Edge("A", "B")
	assert.InDelta(t, 0.92, ab.Weight, eps)
	require.NotNil(t, ab.BaseWeight)
	assert.InDelta(t, 0.8, *ab.BaseWeight, eps)

	assert.True(t, g.Indexed())
}

func TestBuildIndexMeanOfOutgoing(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.2},
		{Source: "A", Target: "C", Weight: 0.6},
	})

	_, err := BuildIndex(g, Min)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, criticalOf(t, g, "A"), eps)
}

func TestBuildIndexUnscoredLeavesGraphUntouched(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: graph.Unscored},
	})
	nodesBefore, edgesBefore := g.Nodes(), g.Edges()

	res, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	assert.Equal(t, StatusUnscored, res.Status)
	require.Len(t, res.Unscored, 1)
	assert.Equal(t, "B", res.Unscored[0].Source)

	assert.Equal(t, nodesBefore, g.Nodes())
	assert.Equal(t, edgesBefore, g.Edges())
	assert.False(t, g.Indexed())
}

func TestBuildIndexUnknownModeLeavesGraphUntouched(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
	})
	before := g.Edges()

	_, err := BuildIndex(g, Mode("avg"))
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, before, g.Edges())
}

func TestBuildIndexIdempotent(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: 0.6},
	})
	_, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	after := g.Edges()

	res, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyIndexed, res.Status)
	assert.Equal(t, after, g.Edges())
}

func TestBuildIndexRecomputesAfterNewEdge(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: 0.6},
	})
	_, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)

	_, err = g.AddNode("D")
	require.NoError(t, err)
	o, err := g.AddEdge(graph.Edge{Source: "C", Target: "D", Weight: 0.5})
	require.NoError(t, err)
	require.Equal(t, graph.Inserted, o)
	require.False(t, g.Indexed())

	res, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	assert.Equal(t, StatusIndexed, res.Status)

	cd, _ := g.Edge("C", "D")
	assert.InDelta(t, 0.5, cd.Weight, eps)
	bc, _ := g.Edge("B", "C")
	assert.InDelta(t, 0.8, bc.Weight, eps)
	assert.InDelta(t, 0.6, *bc.BaseWeight, eps)
	ab, _ := g.Edge("A", "B")
	assert.InDelta(t, 0.92, ab.Weight, eps)
	assert.InDelta(t, 0.8, *ab.BaseWeight, eps)
}

func TestBuildIndexEmptyGraph(t *testing.T) {
	g := buildGraph(t, []string{"A"}, nil)

	res, err := BuildIndex(g, Min)
	require.NoError(t, err)
	assert.Equal(t, StatusIndexed, res.Status)
	assert.Equal(t, -1.0, criticalOf(t, g, "A"))
	assert.True(t, g.Indexed())

	res, err = BuildIndex(g, Min)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyIndexed, res.Status)
}

func TestBuildIndexKeepsCombinedWeightsOffSentinel(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		ab   float64
		bc   float64
	}{
		{name: "multiplication of negative scores", mode: Multiplication, ab: -0.5, bc: -0.5},
		{name: "multiplication at the domain floor", mode: Multiplication, ab: -0.9, bc: -0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
				{Source: "A", Target: "B", Weight: tt.ab},
				{Source: "B", Target: "C", Weight: tt.bc},
			})

			res, err := BuildIndex(g, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, StatusIndexed, res.Status)

			ab, _ := g.Edge("A", "B")
			assert.Greater(t, ab.Weight, graph.Unscored)
			assert.Less(t, ab.Weight, -0.99)
			require.NotNil(t, ab.BaseWeight)
			assert.InDelta(t, tt.ab, *ab.BaseWeight, eps)
			assert.True(t, g.Indexed())
		})
	}
}

func TestBuildIndexAfterRescore(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C"}, []graph.Edge{
		{Source: "A", Target: "B", Weight: 0.8},
		{Source: "B", Target: "C", Weight: 0.6},
	})
	_, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)

	require.NoError(t, g.SetWeight("B", "C", 0.5))
	require.False(t, g.Indexed())

	res, err := BuildIndex(g, Multiplication)
	require.NoError(t, err)
	assert.Equal(t, StatusIndexed, res.Status)

	bc, _ := g.Edge("B", "C")
	require.NotNil(t, bc.BaseWeight)
	assert.InDelta(t, 0.5, *bc.BaseWeight, eps)
	assert.InDelta(t, 0.5, bc.Weight, eps)
	assert.InDelta(t, 0.5, criticalOf(t, g, "B"), eps)

	// 1 - (1-0.8)(1-0.5)
	ab, _ := g.Edge("A", "B")
	assert.InDelta(t, 0.9, ab.Weight, eps)
	assert.InDelta(t, 0.8, *ab.BaseWeight, eps)
}
