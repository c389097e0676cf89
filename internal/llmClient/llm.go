package llmclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable wraps transport-level failures: the provider
// could not be reached at all.
var ErrUpstreamUnavailable = errors.New("model provider unreachable")

// UpstreamError is a non-success status from the provider, carrying the
// status code and a capped payload excerpt for diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model provider returned status %d: %s", e.Status, e.Body)
}

// Invocation is one completed model call.
type Invocation struct {
	Text      string
	RequestID string
	ModelUsed string
}

// Client is the boundary around a hosted generative-text provider.
// One Invoke is one attempt; retries, caching and batching are
// deliberately absent.
type Client interface {
	// Invoke sends the instruction to the given model and returns its
	// raw text output. Context cancellation is propagated to the
	// underlying transport.
	Invoke(ctx context.Context, instruction, model string) (Invocation, error)
	// InvokeWithWebSearch is Invoke with the provider's hosted
	// web-search tool enabled, for instructions that tell the model to
	// open a URL. Providers without such a tool fall back to Invoke.
	InvokeWithWebSearch(ctx context.Context, instruction, model string) (Invocation, error)
	Name() string
	Close() error
}
