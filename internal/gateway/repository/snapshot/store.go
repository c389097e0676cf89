package snapshot

import "context"

// Store archives raw model output for diagnostics. Implementations are
// best effort collaborators; the pipeline logs and drops errors.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
}
