package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIClient calls the OpenAI Responses API.
// See: https://platform.openai.com/docs/api-reference/responses
type OpenAIClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

// NewOpenAIClient creates an OpenAI client. If apiKey is empty, it
// falls back to the OPENAI_API_KEY env var.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return &OpenAIClient{
		http:    &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1/responses",
	}, nil
}

func (c *OpenAIClient) Name() string { return "OpenAI" }
func (c *OpenAIClient) Close() error { return nil }

type openaiTool struct {
	Type string `json:"type"`
}

type openaiResponsesReq struct {
	Model string       `json:"model"`
	Input string       `json:"input"`
	Tools []openaiTool `json:"tools,omitempty"`
}

type openaiResponsesResp struct {
	ID         string `json:"id"`
	Model      string `json:"model"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (c *OpenAIClient) Invoke(ctx context.Context, instruction, model string) (Invocation, error) {
	return c.invoke(ctx, instruction, model, nil)
}

func (c *OpenAIClient) InvokeWithWebSearch(ctx context.Context, instruction, model string) (Invocation, error) {
	return c.invoke(ctx, instruction, model, []openaiTool{{Type: "web_search"}})
}

func (c *OpenAIClient) invoke(ctx context.Context, instruction, model string, tools []openaiTool) (Invocation, error) {
	b, _ := json.Marshal(openaiResponsesReq{Model: model, Input: instruction, Tools: tools})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return Invocation{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Invocation{}, ctx.Err()
		}
		return Invocation{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		return Invocation{}, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	var out openaiResponsesResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Invocation{}, &UpstreamError{Status: resp.StatusCode, Body: fmt.Sprintf("undecodable body: %v", err)}
	}
	return Invocation{
		Text:      outputText(out),
		RequestID: out.ID,
		ModelUsed: out.Model,
	}, nil
}

// outputText prefers the convenience output_text field and otherwise
// concatenates the text parts of message items, which is how the
// Responses API lays out its output array.
func outputText(resp openaiResponsesResp) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	var sb strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
