package backend

import (
	"context"
	"fmt"
)

// Mock serves canned results behind the SearchClient contract. Tests and
// offline runs inject it in place of the live client.
type Mock struct {
	ResultsByQuery map[string][]SearchHit
	ExplainByDoc   map[int]*Explanation
	PingErr        error

	SearchCalls int
}

func NewMock() *Mock {
	return &Mock{
		ResultsByQuery: make(map[string][]SearchHit),
		ExplainByDoc:   make(map[int]*Explanation),
	}
}

func (m *Mock) Search(_ context.Context, _ string, query string, size int, _ []string) ([]SearchHit, error) {
	m.SearchCalls++
	hits := m.ResultsByQuery[query]
	if size < len(hits) {
		hits = hits[:size]
	}
	return hits, nil
}

func (m *Mock) Explain(_ context.Context, _ string, docID int, _ string, _ []string) (*Explanation, error) {
	expl, ok := m.ExplainByDoc[docID]
	if !ok {
		return nil, fmt.Errorf("no explanation configured for doc %d", docID)
	}
	return expl, nil
}

func (m *Mock) Ping(_ context.Context) error { return m.PingErr }

var _ SearchClient = (*Mock)(nil)
