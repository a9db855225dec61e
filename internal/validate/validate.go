// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate traces an argument through a citation graph. Starting at
// one paper it finds the passages that state the argument, attributes each
// passage to one of the paper's references, judges whether the passage
// supports the argument and follows the attributed references breadth first.
package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citeside/internal/entail"
	"github.com/pdiddy/citeside/internal/graph"
	"github.com/pdiddy/citeside/internal/linker"
	"github.com/pdiddy/citeside/internal/snippet"
	"github.com/pdiddy/citeside/pkg/types"
)

// ErrUnknownPaper is returned when the start paper is not in the graph.
var ErrUnknownPaper = errors.New("unknown paper")

// Papers looks up corpus papers. *corpus.Corpus satisfies it.
type Papers interface {
	Paper(id string) (types.Paper, bool)
}

// Linker attributes a snippet to one of the candidate references.
// *linker.Linker satisfies it.
type Linker interface {
	Link(snippet string, candidates []linker.Candidate) (string, bool)
}

// Finding is one judged snippet.
type Finding struct {
	// SourcePaperID is the paper the snippet was found in.
	SourcePaperID string
	// PaperID is the reference the snippet was attributed to, empty when
	// no reference matched.
	PaperID   string
	Snippet   snippet.Snippet
	Judgment  entail.Judgment
	CritIndex float64
}

// Linked reports whether the finding was attributed to a reference.
func (f Finding) Linked() bool { return f.PaperID != "" }

// Result is the outcome of a run.
type Result struct {
	Argument string
	// Tree holds the visited papers and an edge for every attributed
	// reference, weighted by the mean critical index of its findings.
	Tree *graph.Graph
	// Findings are ordered by visit, then by snippet rank.
	Findings []Finding
	Visited  []string
}

// Runner walks the full citation graph. Build one with New.
type Runner struct {
	graph       *graph.Graph
	papers      Papers
	retriever   snippet.Retriever
	linker      Linker
	scorer      entail.Scorer
	concurrency int
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of snippets judged in parallel.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Runner over the full graph g whose paper texts and authors
// come from papers.
func New(g *graph.Graph, papers Papers, retriever snippet.Retriever, l Linker, scorer entail.Scorer, opts ...Option) *Runner {
	r := &Runner{
		graph:       g,
		papers:      papers,
		retriever:   retriever,
		linker:      l,
		scorer:      scorer,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates argument starting at paperID. Every paper is searched at
// most once.
func (r *Runner) Run(ctx context.Context, argument, paperID string) (*Result, error) {
	if !r.graph.HasNode(paperID) {
		return nil, fmt.Errorf("validating %q: %w", paperID, ErrUnknownPaper)
	}

	res := &Result{Argument: argument, Tree: graph.New()}
	if _, err := res.Tree.AddNode(paperID); err != nil {
		return nil, fmt.Errorf("validating %q: %w", paperID, err)
	}

	queue := []string{paperID}
	enqueued := map[string]bool{paperID: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		res.Visited = append(res.Visited, id)
		r.logger.Info("validating paper", "paper", id)

		findings, err := r.search(ctx, argument, id)
		if err != nil {
			return nil, fmt.Errorf("validating %q: %w", id, err)
		}
		res.Findings = append(res.Findings, findings...)

		for _, ref := range r.attach(res.Tree, id, findings) {
			if !enqueued[ref] {
				enqueued[ref] = true
				queue = append(queue, ref)
			}
		}
	}
	return res, nil
}

// search retrieves, links and judges the snippets of one paper.
func (r *Runner) search(ctx context.Context, argument, id string) ([]Finding, error) {
	paper, ok := r.papers.Paper(id)
	if !ok || paper.FullText == "" {
		r.logger.Debug("no full text", "paper", id)
		return nil, nil
	}

	snippets, err := r.retriever.Retrieve(ctx, paper.FullText, argument)
	if err != nil {
		return nil, err
	}
	if len(snippets) == 0 {
		return nil, nil
	}

	candidates := r.candidates(id)
	findings := make([]Finding, len(snippets))
	for i, s := range snippets {
		findings[i] = Finding{SourcePaperID: id, Snippet: s}
		if ref, ok := r.linker.Link(s.Text, candidates); ok {
			findings[i].PaperID = ref
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range findings {
		g.Go(func() error {
			j, err := r.scorer.Judge(gctx, argument, findings[i].Snippet.Text)
			if err != nil {
				return err
			}
			findings[i].Judgment = j
			findings[i].CritIndex = entail.CritIndex(j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return findings, nil
}

// candidates lists the references of id with their authors and years.
func (r *Runner) candidates(id string) []linker.Candidate {
	refs := r.graph.References(id)
	out := make([]linker.Candidate, 0, len(refs))
	for _, ref := range refs {
		c := linker.Candidate{PaperID: ref}
		if p, ok := r.papers.Paper(ref); ok {
			c.Authors = p.Authors
			c.Year = p.Year
		}
		out = append(out, c)
	}
	return out
}

// attach adds an edge from id to every attributed reference and returns
// the references in first-finding order.
func (r *Runner) attach(tree *graph.Graph, id string, findings []Finding) []string {
	var refs []string
	scores := map[string][]float64{}
	for _, f := range findings {
		if !f.Linked() {
			continue
		}
		if _, seen := scores[f.PaperID]; !seen {
			refs = append(refs, f.PaperID)
			scores[f.PaperID] = nil
		}
		if f.CritIndex != graph.Unscored {
			scores[f.PaperID] = append(scores[f.PaperID], f.CritIndex)
		}
	}

	var added []string
	for _, ref := range refs {
		if _, err := tree.AddNode(ref); err != nil {
			r.logger.Warn("skipping reference", "paper", ref, "error", err)
			continue
		}
		out, err := tree.AddEdge(graph.Edge{Source: id, Target: ref, Weight: mean(scores[ref])})
		if err != nil {
			r.logger.Warn("skipping reference", "paper", ref, "error", err)
			continue
		}
		if out.Rejected() {
			r.logger.Warn("reference edge rejected", "source", id, "target", ref, "outcome", out)
			continue
		}
		added = append(added, ref)
	}
	return added
}

// mean returns the average of xs, or -1 when xs is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return graph.Unscored
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
