package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/querent/internal/model"
)

// LLMSummarizer rewrites an extractive summary through a chat model.
// It is optional; callers fall back to the extractive summary when the
// model call fails or the feature is disabled.
type LLMSummarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewLLMSummarizer creates a model-backed summarizer, or nil when the
// configuration disables it.
func NewLLMSummarizer(cfg model.LLMConfig) (*LLMSummarizer, error) {
	if cfg.Provider == "" {
		return nil, nil
	}
	if cfg.Provider != "openai" {
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	llmModel := cfg.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &LLMSummarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     llmModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Refine rewrites the extractive summary into fluent prose. The model
// may only restate information already present in the input sentences.
func (l *LLMSummarizer) Refine(ctx context.Context, query, extended string) (string, error) {
	if extended == "" {
		return "", fmt.Errorf("nothing to summarize")
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You rewrite search result excerpts into a short, fluent summary. " +
					"Use only the facts present in the excerpts. Do not add information, " +
					"sources, or URLs. If the excerpts do not answer the question, say so.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Question: %s\n\nExcerpts:\n%s\n\nWrite a 2-4 sentence answer.", query, extended),
			},
		},
		MaxTokens:   l.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("llm summarization failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
