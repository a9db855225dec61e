package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// configValidate checks Config values against their struct tags.
var configValidate = validator.New()

// GraphConfig holds defaults for crawling and indexing citation graphs.
type GraphConfig struct {
	// CrawlDepth is the default number of forward hops (papers cited by the root).
	CrawlDepth int `json:"crawl_depth" yaml:"crawl_depth" mapstructure:"crawl_depth" validate:"gte=0"`

	// ReverseDepth is the default number of backward hops (papers citing the root).
	// Zero disables the reverse phase unless a command asks for it explicitly.
	ReverseDepth int `json:"reverse_depth" yaml:"reverse_depth" mapstructure:"reverse_depth" validate:"gte=0"`

	// CombineMode selects how node and edge scores are combined: multiplication or min.
	CombineMode string `json:"combine_mode" yaml:"combine_mode" mapstructure:"combine_mode" validate:"oneof=multiplication min"`
}

// SnapshotFormat identifies the on-disk encoding of a graph snapshot.
type SnapshotFormat string

const (
	FormatJSON SnapshotFormat = "json"
	FormatYAML SnapshotFormat = "yaml"
)

// SnapshotConfig holds settings for reading and writing snapshot files.
type SnapshotConfig struct {
	// Dir is the directory for snapshot files (e.g. "data/snapshots").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir" validate:"required"`

	// Format is used when a path has no recognizable extension.
	Format SnapshotFormat `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=json yaml"`
}

// CatalogConfig holds settings for the SQLite snapshot catalog.
type CatalogConfig struct {
	// Dir contains catalog.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir" validate:"required"`
}

// CorpusConfig lists the corpus files used to build the full citation graph.
type CorpusConfig struct {
	// Paths are JSON, JSON Lines, or YAML files of paper records.
	Paths []string `json:"paths" yaml:"paths" mapstructure:"paths"`
}

// EntailmentConfig holds settings for the OpenAI-compatible API used to
// retrieve snippets and judge entailment.
type EntailmentConfig struct {
	// BaseURL overrides the API endpoint, e.g. a local llama.cpp server
	// ("http://localhost:8080/v1"). Empty uses the OpenAI default.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// APIKey is the bearer token for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Model is the chat model that judges entailment.
	Model string `json:"model" yaml:"model" mapstructure:"model" validate:"required"`

	// EmbeddingModel is the model that embeds snippets and arguments.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model" mapstructure:"embedding_model" validate:"required"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxRetries is the number of retries on HTTP 429; 0 uses the default (5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	// Concurrency bounds parallel judgments within one paper.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1"`

	// ChunkSize is the number of sentences per snippet.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=1"`

	// TopK is the maximum number of snippets kept per paper.
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k" validate:"gte=1"`

	// MinScore is the minimum cosine similarity for a snippet to be kept.
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score" validate:"gte=-1,lte=1"`

	// Margin is the minimum probability gap between the two best labels
	// for a judgment to be decided.
	Margin float64 `json:"margin" yaml:"margin" mapstructure:"margin" validate:"gte=0,lte=1"`
}

// Config groups all citeside settings.
type Config struct {
	Graph      GraphConfig      `json:"graph" yaml:"graph" mapstructure:"graph"`
	Snapshot   SnapshotConfig   `json:"snapshot" yaml:"snapshot" mapstructure:"snapshot"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Entailment EntailmentConfig `json:"entailment" yaml:"entailment" mapstructure:"entailment"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Graph: GraphConfig{
			CrawlDepth:  2,
			CombineMode: "multiplication",
		},
		Snapshot: SnapshotConfig{
			Dir:    "data/snapshots",
			Format: FormatJSON,
		},
		Catalog: CatalogConfig{
			Dir: "data/catalog",
		},
		Entailment: EntailmentConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Timeout:        60 * time.Second,
			MaxRetries:     5,
			Concurrency:    4,
			ChunkSize:      3,
			TopK:           5,
			MinScore:       0.45,
			Margin:         0.03,
		},
	}
}

// Validate checks every section of the config and reports all offending
// fields in one error.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}
