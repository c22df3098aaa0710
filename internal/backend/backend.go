package backend

import "context"

// SearchHit is one ranked result as returned by the search backend,
// ordered by descending relevance score.
type SearchHit struct {
	ID        int
	Score     *float64
	Source    map[string]any
	Highlight map[string][]string
}

// Explanation is the nested score breakdown a backend returns for a
// single (query, document) pair.
type Explanation struct {
	Value       float64        `json:"value"`
	Description string         `json:"description"`
	Details     []*Explanation `json:"details,omitempty"`
}

// SearchClient is the contract an evaluation run consumes. The live
// implementation talks to Elasticsearch; the mock serves canned data.
type SearchClient interface {
	// Search issues a ranked query against the index. Size caps the
	// result count; fields restricts which fields are searched and
	// returned.
	Search(ctx context.Context, index, query string, size int, fields []string) ([]SearchHit, error)

	// Explain returns the backend's score explanation tree for one
	// (query, document) pair.
	Explain(ctx context.Context, index string, docID int, query string, fields []string) (*Explanation, error)

	// Ping checks backend liveness. Run construction fails fast when
	// it errors.
	Ping(ctx context.Context) error
}
