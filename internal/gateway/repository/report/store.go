package report

import (
	"context"
	"encoding/json"
	"time"
)

// Report is one saved analysis: the property snapshot and the analysis
// payload are stored as opaque JSON documents, the way the dashboard
// consumes them.
type Report struct {
	ID              int64           `json:"id,omitempty"`
	UserID          string          `json:"user_id,omitempty"`
	PropertyAddress string          `json:"property_address"`
	Strategy        string          `json:"strategy"`
	ROI             float64         `json:"roi"`
	Property        json.RawMessage `json:"property"`
	Analysis        json.RawMessage `json:"analysis"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Store is the persistence collaborator for saved reports.
type Store interface {
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]Report, error)
	Create(ctx context.Context, userID string, rep Report) (Report, error)
	Close() error
}
