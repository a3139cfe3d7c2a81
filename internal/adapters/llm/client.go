// Package llm adapts the external LLM gateway to the core.Scorer port.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/target/convo-eval/internal/core"
)

const systemPrompt = "You are a conversation quality evaluator. " +
	"Answer with only the requested score or label, no explanation."

// Client scores conversations through an OpenAI-compatible chat completion
// endpoint. It implements core.Scorer.
type Client struct {
	client openai.Client
	model  openai.ChatModel
}

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	APIKey  string // Required
	Model   string // Optional: defaults to gpt-4o-mini
	BaseURL string // Optional: override for self-hosted gateways
}

// NewClient constructs a scoring client against the configured gateway.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("APIKey is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := openai.ChatModel(opts.Model)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	return &Client{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Evaluate renders the metric prompt and transcript into a single completion
// request and returns the trimmed response text.
func (c *Client) Evaluate(ctx context.Context, req core.ScoreRequest) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(renderPrompt(req)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion for metric %s: %w", req.Metric, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion for metric %s: empty response", req.Metric)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// renderPrompt appends the transcript to the metric prompt, one
// "Role: message" line per turn.
func renderPrompt(req core.ScoreRequest) string {
	var sb strings.Builder
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\nConversation:\n")
	for _, turn := range req.Turns {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}
