// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm builds the OpenAI-compatible client shared by the snippet
// retriever and the entailment scorer.
package llm

import (
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/citeside/internal/httputil"
	"github.com/pdiddy/citeside/pkg/types"
)

// NewClient returns a client for cfg.BaseURL (or the OpenAI default) whose
// requests are retried on HTTP 429.
func NewClient(cfg types.EntailmentConfig, logger *slog.Logger) *openai.Client {
	if logger == nil {
		logger = slog.Default()
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = httputil.NewRetryClient(&http.Client{Timeout: cfg.Timeout}, cfg.MaxRetries, logger)
	logger.Debug("initializing OpenAI-compatible client", "base_url", oc.BaseURL, "model", cfg.Model)
	return openai.NewClientWithConfig(oc)
}
