package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relevancelab/searcheval/internal/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluation_runs (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	index_name TEXT NOT NULL,
	k INT NOT NULL,
	recall_total DOUBLE PRECISION NOT NULL,
	precision_total DOUBLE PRECISION NOT NULL,
	fscore_total DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStore persists run records in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, connStr string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) SaveRun(ctx context.Context, rec RunRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO evaluation_runs
			(id, name, index_name, k, recall_total, precision_total, fscore_total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Name, rec.Index, rec.K, rec.RecallTotal, rec.PrecisionTotal, rec.FScoreTotal)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PGStore) GetRun(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	var rec RunRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, index_name, k, recall_total, precision_total, fscore_total, created_at
		 FROM evaluation_runs WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Name, &rec.Index, &rec.K,
			&rec.RecallTotal, &rec.PrecisionTotal, &rec.FScoreTotal, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return RunRecord{}, apperr.NewNotFound("run " + id.String() + " not found")
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("select run %s: %w", id, err)
	}
	return rec, nil
}

func (s *PGStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, index_name, k, recall_total, precision_total, fscore_total, created_at
		 FROM evaluation_runs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Index, &rec.K,
			&rec.RecallTotal, &rec.PrecisionTotal, &rec.FScoreTotal, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PGStore) Close() {
	s.pool.Close()
}

var _ RunStore = (*PGStore)(nil)
