// Package store persists analysis results and exception audit records in
// Postgres. Persistence is optional: the service runs fully in-memory when
// no database is configured.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krdstools/krds-checker/pkg/analysis"
)

// ErrNotFound is returned when a stored analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Store wraps a pgx connection pool.
type Store struct{ Pool *pgxpool.Pool }

// Open connects to Postgres.
func Open(ctx context.Context, url string) (*Store, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: p}, nil
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id            uuid PRIMARY KEY,
			url           text NOT NULL,
			viewport      text NOT NULL DEFAULT '',
			overall_score int  NOT NULL,
			result        jsonb NOT NULL,
			created_at    timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS exception_audits (
			id               uuid PRIMARY KEY,
			analysis_id      uuid REFERENCES analyses(id),
			checklist_id     text NOT NULL DEFAULT '',
			total_exceptions int  NOT NULL,
			original_score   int  NOT NULL,
			adjusted_score   int  NOT NULL,
			score_difference int  NOT NULL,
			sections         text[] NOT NULL DEFAULT '{}',
			created_at       timestamptz NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS analyses_url_idx ON analyses (url, created_at DESC);
	`)
	return err
}

// SaveAnalysis stores a result and returns its id.
func (s *Store) SaveAnalysis(ctx context.Context, result *analysis.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}

	id := uuid.NewString()
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO analyses (id, url, viewport, overall_score, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, result.URL, result.Viewport, result.OverallScore, payload, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetAnalysis loads a stored result by id.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*analysis.Result, error) {
	var payload []byte
	err := s.Pool.QueryRow(ctx, `SELECT result FROM analyses WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var result analysis.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis %s: %w", id, err)
	}
	return &result, nil
}

// AnalysisSummary is one row of a stored-analysis listing.
type AnalysisSummary struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	OverallScore int       `json:"overallScore"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListRecent returns the most recent analyses, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, url, overall_score, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var row AnalysisSummary
		if err := rows.Scan(&row.ID, &row.URL, &row.OverallScore, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveExceptionAudit stores the audit record of one override invocation.
// analysisID may be empty when the adjusted analysis was supplied inline.
func (s *Store) SaveExceptionAudit(ctx context.Context, analysisID string, info *analysis.ExceptionInfo) error {
	var analysisRef any
	if analysisID != "" {
		analysisRef = analysisID
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO exception_audits
			(id, analysis_id, checklist_id, total_exceptions, original_score, adjusted_score, score_difference, sections, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.NewString(), analysisRef, info.ChecklistID, info.TotalExceptions,
		info.OriginalScore, info.AdjustedScore, info.ScoreDifference, info.Sections, time.Now().UTC())
	return err
}
