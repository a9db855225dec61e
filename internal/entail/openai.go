// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/citeside/pkg/types"
)

// ChatCompleter creates chat completions. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIScorer judges entailment with a chat model behind an
// OpenAI-compatible API. Construct it once and share it; it holds no
// per-call state.
type OpenAIScorer struct {
	client ChatCompleter
	model  string
	margin float64
	logger *slog.Logger
}

// NewOpenAIScorer returns a scorer using cfg.Model and cfg.Margin.
func NewOpenAIScorer(client ChatCompleter, cfg types.EntailmentConfig, logger *slog.Logger) *OpenAIScorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIScorer{client: client, model: cfg.Model, margin: cfg.Margin, logger: logger}
}

// Judge asks the model for label probabilities and decides the label.
func (s *OpenAIScorer) Judge(ctx context.Context, argument, snippet string) (Judgment, error) {
	prompt, err := renderPrompt(argument, snippet)
	if err != nil {
		return Judgment{}, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:    0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return Judgment{}, fmt.Errorf("judging entailment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Judgment{}, fmt.Errorf("judging entailment: model returned no choices")
	}

	content := resp.Choices[0].Message.Content
	raw, err := parseScores(content)
	if err != nil {
		s.logger.Debug("unparseable entailment reply", "content", content)
		return Judgment{}, fmt.Errorf("judging entailment: %w", err)
	}
	j, err := Decide(raw, s.margin)
	if err != nil {
		return Judgment{}, fmt.Errorf("judging entailment: %w", err)
	}
	s.logger.Debug("judged snippet", "label", j.Label, "confidence", j.Confidence)
	return j, nil
}

// parseScores reads label probabilities from a model reply. It accepts a
// JSON object, optionally wrapped in prose or a code fence, or a bare label
// which counts as certainty.
func parseScores(content string) (map[Label]float64, error) {
	content = strings.TrimSpace(content)
	if l, ok := bareLabel(content); ok {
		return map[Label]float64{l: 1}, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %q", ErrNoScores, content)
	}
	var obj map[string]float64
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("parsing scores: %w", err)
	}

	raw := make(map[Label]float64, len(Labels))
	for k, v := range obj {
		raw[Label(strings.ToUpper(strings.TrimSpace(k)))] = v
	}
	return raw, nil
}

func bareLabel(content string) (Label, bool) {
	word := strings.ToUpper(strings.Trim(content, " .\"'`\n"))
	for _, l := range Labels {
		if word == string(l) {
			return l, true
		}
	}
	return "", false
}
