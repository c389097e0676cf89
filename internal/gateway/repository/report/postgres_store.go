package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps reports in a reports table and caches per-user
// list pages. The schema is created lazily on first use.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	listCache *lru.Cache[string, []Report]
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []Report](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, listCache: cache}, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) ensureSchema() error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS reports (
  id SERIAL PRIMARY KEY,
  user_id TEXT NOT NULL,
  property_address TEXT NOT NULL DEFAULT '',
  strategy TEXT NOT NULL DEFAULT '',
  roi DOUBLE PRECISION NOT NULL DEFAULT 0,
  property JSONB NOT NULL DEFAULT '{}',
  analysis JSONB NOT NULL DEFAULT '{}',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports (user_id);
`)
	})
	return s.schemaErr
}

func listKey(userID string, offset, limit int) string {
	return fmt.Sprintf("%s|%d|%d", userID, offset, limit)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Report, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	key := listKey(userID, offset, limit)
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, property_address, strategy, roi, property, analysis, created_at
FROM reports
WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2
LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.PropertyAddress, &rep.Strategy,
			&rep.ROI, &rep.Property, &rep.Analysis, &rep.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.listCache.Add(key, out)
	return out, nil
}

func (s *PostgresStore) Create(ctx context.Context, userID string, rep Report) (Report, error) {
	if err := s.ensureSchema(); err != nil {
		return Report{}, err
	}
	row := s.db.QueryRowContext(ctx, `
INSERT INTO reports (user_id, property_address, strategy, roi, property, analysis, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, user_id, property_address, strategy, roi, property, analysis, created_at`,
		userID, rep.PropertyAddress, rep.Strategy, rep.ROI, rep.Property, rep.Analysis)

	var saved Report
	if err := row.Scan(
		&saved.ID, &saved.UserID, &saved.PropertyAddress, &saved.Strategy,
		&saved.ROI, &saved.Property, &saved.Analysis, &saved.CreatedAt,
	); err != nil {
		return Report{}, err
	}
	s.invalidateUser(userID)
	return saved, nil
}

// invalidateUser drops every cached page for the user; pages are cheap
// to rebuild and a stale list after create is worse.
func (s *PostgresStore) invalidateUser(userID string) {
	prefix := userID + "|"
	for _, key := range s.listCache.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.listCache.Remove(key)
		}
	}
}
