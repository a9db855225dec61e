// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snippet

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/citeside/pkg/types"
)

// embedBatchSize bounds the number of inputs per embeddings request.
const embedBatchSize = 256

// Snippet is a chunk ranked by similarity to an argument.
type Snippet struct {
	Chunk
	Score float64
}

// Retriever returns the passages of text most similar to argument, best first.
type Retriever interface {
	Retrieve(ctx context.Context, text, argument string) ([]Snippet, error)
}

// Embedder creates embeddings. *openai.Client satisfies it.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingRetriever ranks sentence chunks by cosine similarity between
// their embeddings and the argument's embedding.
type EmbeddingRetriever struct {
	client    Embedder
	model     string
	chunkSize int
	topK      int
	minScore  float64
	logger    *slog.Logger
}

// NewEmbeddingRetriever returns a retriever using cfg's embedding model,
// chunk size, top-k and minimum score.
func NewEmbeddingRetriever(client Embedder, cfg types.EntailmentConfig, logger *slog.Logger) *EmbeddingRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingRetriever{
		client:    client,
		model:     cfg.EmbeddingModel,
		chunkSize: cfg.ChunkSize,
		topK:      cfg.TopK,
		minScore:  cfg.MinScore,
		logger:    logger,
	}
}

// Retrieve chunks text, keeps the topK chunks by similarity and drops those
// scoring below the minimum. An empty text yields no snippets.
func (r *EmbeddingRetriever) Retrieve(ctx context.Context, text, argument string) ([]Snippet, error) {
	chunks := ChunkText(text, r.chunkSize, 0)
	if len(chunks) == 0 {
		return nil, nil
	}

	inputs := make([]string, 0, len(chunks)+1)
	inputs = append(inputs, argument)
	for _, c := range chunks {
		inputs = append(inputs, c.Text)
	}
	vectors, err := r.embed(ctx, inputs)
	if err != nil {
		return nil, err
	}

	ranked := make([]Snippet, len(chunks))
	for i, c := range chunks {
		ranked[i] = Snippet{Chunk: c, Score: Cosine(vectors[0], vectors[i+1])}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if r.topK > 0 && len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}
	var out []Snippet
	for _, s := range ranked {
		if s.Score >= r.minScore {
			out = append(out, s)
		}
	}
	r.logger.Debug("retrieved snippets", "chunks", len(chunks), "kept", len(out))
	return out, nil
}

func (r *EmbeddingRetriever) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	vectors := make([][]float32, len(inputs))
	for start := 0; start < len(inputs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(inputs))
		resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: inputs[start:end],
			Model: openai.EmbeddingModel(r.model),
		})
		if err != nil {
			return nil, fmt.Errorf("creating embeddings: %w", err)
		}
		for _, d := range resp.Data {
			if d.Index < 0 || start+d.Index >= end {
				return nil, fmt.Errorf("creating embeddings: index %d out of range", d.Index)
			}
			vectors[start+d.Index] = d.Embedding
		}
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("creating embeddings: no embedding for input %d", i)
		}
	}
	return vectors, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is zero
// or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
