// Package store persists evaluation run summaries so approaches can be
// compared across time, not only within one process.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/relevancelab/searcheval/internal/apperr"
)

// RunRecord is one evaluated run's summary: identity, configuration and
// the aggregate metric totals.
type RunRecord struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Index          string    `json:"index"`
	K              int       `json:"k"`
	RecallTotal    float64   `json:"recall_total"`
	PrecisionTotal float64   `json:"precision_total"`
	FScoreTotal    float64   `json:"fscore_total"`
	CreatedAt      time.Time `json:"created_at"`
}

type RunStore interface {
	SaveRun(ctx context.Context, rec RunRecord) error
	GetRun(ctx context.Context, id uuid.UUID) (RunRecord, error)
	ListRuns(ctx context.Context) ([]RunRecord, error)
	Close()
}

// MemoryStore keeps run records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]RunRecord)}
}

func (s *MemoryStore) SaveRun(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return RunRecord{}, apperr.NewNotFound("run " + id.String() + " not found")
	}
	return rec, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]RunRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

func (s *MemoryStore) Close() {}

var _ RunStore = (*MemoryStore)(nil)
