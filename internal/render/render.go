// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render prints graphs and validation findings to a terminal with
// colors that encode edge weights and crawl depths.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/citeside/internal/graph"
	"github.com/pdiddy/citeside/internal/validate"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Palette end points.
var (
	Blue  = RGB{0, 0, 255}
	White = RGB{255, 255, 255}
	Red   = RGB{255, 0, 0}
	Green = RGB{0, 255, 0}
)

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Color returns the lipgloss color.
func (c RGB) Color() lipgloss.Color { return lipgloss.Color(c.Hex()) }

// Styles used by the printers.
var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// WeightColor maps a weight in [-1,1] to a color. Weights up to 0 fade from
// blue (unscored) to white; positive weights fade from red (critical) to
// green (non critical). Out-of-range weights are clamped.
func WeightColor(w float64) RGB {
	w = math.Max(-1, math.Min(1, w))
	if w <= 0 {
		return lerp(Blue, White, w+1)
	}
	return lerp(Red, Green, w)
}

// DepthColor maps a crawl depth to a color relative to bound, the crawl
// radius on the depth's side of the root: negative depths fade toward blue,
// positive depths toward red, the root is white.
func DepthColor(bound, depth int) RGB {
	if depth == 0 || bound == 0 {
		return White
	}
	wh := math.Max(-1, math.Min(1, float64(depth)/math.Abs(float64(bound))))
	if wh <= 0 {
		return lerp(Blue, White, wh+1)
	}
	return lerp(White, Red, wh)
}

func lerp(a, b RGB, t float64) RGB {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B)}
}

func fg(c RGB, s string) string { return lipgloss.NewStyle().Foreground(c.Color()).Render(s) }

func swatch(c RGB) string { return lipgloss.NewStyle().Background(c.Color()).Render("  ") }

type legendEntry struct {
	color RGB
	label string
}

func legend(w io.Writer, title string, entries []legendEntry) {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = swatch(e.color) + " " + e.label
	}
	fmt.Fprintf(w, "\n%s\n  %s\n", headingStyle.Render(title), strings.Join(parts, "   "))
}

var weightLegend = []legendEntry{
	{Blue, "-1 (blue) unscored"},
	{Red, "0 (red) critical"},
	{Green, "1 (green) non critical"},
}

var depthLegend = []legendEntry{
	{Blue, "(blue) reverse crawl depth"},
	{White, "(white) root"},
	{Red, "(red) crawl depth"},
}

// Tree prints the nodes and edges of g. Nodes of a crawl snapshot are
// colored by depth; other nodes show their critical index when set.
func Tree(w io.Writer, g *graph.Graph) {
	meta := g.Meta()
	if g.IsCrawl() {
		fmt.Fprintf(w, "Crawl of %s (depth %s, reverse depth %s)\n",
			meta.CrawlRoot, optInt(meta.CrawlDepth), optInt(meta.ReverseDepth))
		legend(w, "Legend (color = depth):", depthLegend)
	}

	fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Nodes:"))
	for _, n := range g.Nodes() {
		switch {
		case g.IsCrawl() && n.Depth != nil:
			bound := optBound(meta.CrawlDepth)
			if *n.Depth < 0 {
				bound = optBound(meta.ReverseDepth)
			}
			fmt.Fprintf(w, "  %s: depth=%s\n", n.ID, fg(DepthColor(bound, *n.Depth), fmt.Sprint(*n.Depth)))
		case n.Critical != nil:
			fmt.Fprintf(w, "  %s: critical=%s\n", n.ID, fg(WeightColor(*n.Critical), fmt.Sprintf("%.3f", *n.Critical)))
		default:
			fmt.Fprintf(w, "  %s\n", n.ID)
		}
	}

	legend(w, "Legend (color = weight):", weightLegend)
	fmt.Fprintf(w, "\n%s\n", headingStyle.Render("Edges:"))
	edges := g.Edges()
	if len(edges) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("(none)"))
	}
	for _, e := range edges {
		line := fmt.Sprintf("  %s -> %s  weight=%s", e.Source, e.Target, fg(WeightColor(e.Weight), fmt.Sprintf("%.3f", e.Weight)))
		if e.BaseWeight != nil {
			line += mutedStyle.Render(fmt.Sprintf("  base=%.3f", *e.BaseWeight))
		}
		fmt.Fprintln(w, line)
	}
}

// Findings prints findings grouped by the paper they were found in.
func Findings(w io.Writer, findings []validate.Finding) {
	legend(w, "Legend (color = critical index):", weightLegend)
	if len(findings) == 0 {
		fmt.Fprintf(w, "\n  %s\n", mutedStyle.Render("no findings"))
		return
	}

	current := ""
	for i, f := range findings {
		if i == 0 || f.SourcePaperID != current {
			current = f.SourcePaperID
			fmt.Fprintf(w, "\n%s %s\n", headingStyle.Render("Found within paper:"), current)
		}
		ref := f.PaperID
		if ref == "" {
			ref = "-"
		}
		head := fmt.Sprintf("[%s %.2f crit=%.3f] -> %s", f.Judgment.Label, f.Judgment.Confidence, f.CritIndex, ref)
		fmt.Fprintf(w, "  %s\n    %s\n", fg(WeightColor(f.CritIndex), head), f.Snippet.Text)
	}
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func optBound(p *int) int {
	if p == nil {
		return 1
	}
	return *p
}
