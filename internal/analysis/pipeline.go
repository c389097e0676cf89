package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	llmclient "propalytiq/internal/llmClient"
)

// SnapshotStore receives raw model output after a successful analysis,
// best effort. Writes must not block or fail the request.
type SnapshotStore interface {
	Put(ctx context.Context, key string, body []byte) error
}

// Service runs the analysis request pipeline: guard, resolve, build
// prompt, invoke the model once, validate. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	client      llmclient.Client
	model       string
	scrapeModel string
	snapshots   SnapshotStore
}

func NewService(client llmclient.Client, model, scrapeModel string, snapshots SnapshotStore) *Service {
	return &Service{
		client:      client,
		model:       model,
		scrapeModel: scrapeModel,
		snapshots:   snapshots,
	}
}

// Analyze takes a property description through the full pipeline and
// returns a validated Response. One upstream attempt per call; every
// error is scoped to this request.
func (s *Service) Analyze(ctx context.Context, req Request) (Response, error) {
	spec, err := checkRules(req)
	if err != nil {
		return Response{}, err
	}

	prompt := BuildPrompt(req, spec)
	inv, err := s.client.Invoke(ctx, prompt, s.model)
	if err != nil {
		return Response{}, err
	}

	resp, err := ParseResponse(inv.Text, spec)
	if err != nil {
		return Response{}, err
	}

	s.snapshot(inv, spec)
	return resp, nil
}

// snapshot stores the raw model text for later inspection. Failures are
// logged and swallowed; diagnostics never cost a caller their result.
func (s *Service) snapshot(inv llmclient.Invocation, spec StrategySpec) {
	if s.snapshots == nil {
		return
	}
	key := snapshotKey(inv.RequestID, spec.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.snapshots.Put(ctx, key, []byte(inv.Text)); err != nil {
		log.Printf("snapshot %s: %v", key, err)
	}
}

func snapshotKey(requestID, strategyID string) string {
	if requestID == "" {
		requestID = time.Now().UTC().Format("20060102T150405.000000000")
	}
	return fmt.Sprintf("analysis/%s/%s.json", strategyID, requestID)
}
