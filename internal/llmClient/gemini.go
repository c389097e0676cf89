package llmclient

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli *genai.Client
}

// NewGeminiClient creates a Gemini client. The genai client reads
// GEMINI_API_KEY from the environment.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli}, nil
}

func (g *GeminiClient) Name() string { return "Gemini" }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) Invoke(ctx context.Context, instruction, model string) (Invocation, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: instruction}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		if ctx.Err() != nil {
			return Invocation{}, ctx.Err()
		}
		return Invocation{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Invocation{ModelUsed: model}, nil
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return Invocation{Text: sb.String(), ModelUsed: model}, nil
}

// InvokeWithWebSearch falls back to a plain invocation: the listing
// extraction prompt already carries the URL, and browse-grounded output
// is an OpenAI-path feature.
func (g *GeminiClient) InvokeWithWebSearch(ctx context.Context, instruction, model string) (Invocation, error) {
	return g.Invoke(ctx, instruction, model)
}
