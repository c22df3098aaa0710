package comparison

import (
	"context"
	"fmt"
	"sort"

	"github.com/relevancelab/searcheval/internal/evaluation"
)

// DisjointEntry holds one query's hits that appear in exactly one of the
// two runs' buckets, matched by document id only.
type DisjointEntry struct {
	Query    string
	Question string
	// OnlyA are hits in run A's bucket whose document is absent from
	// run B's, and vice versa for OnlyB.
	OnlyA []evaluation.Hit
	OnlyB []evaluation.Hit
	Count int
}

// DisjointResult is the per-query disjunction of one bucket kind across
// both runs, sorted ascending by disjoint count. Queries without any
// disjoint hits are dropped.
type DisjointResult struct {
	Kind    evaluation.BucketKind
	NameA   string
	NameB   string
	Entries []DisjointEntry
}

// GetDisjointSets computes the symmetric difference of the two runs'
// buckets per query. With highest set, only the query with the greatest
// disjoint count is kept.
func (c *Comparison) GetDisjointSets(ctx context.Context, kind evaluation.BucketKind, highest bool) (*DisjointResult, error) {
	bucketA, err := c.A.Bucket(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("bucket %s for run %q: %w", kind, c.A.Name(), err)
	}
	bucketB, err := c.B.Bucket(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("bucket %s for run %q: %w", kind, c.B.Name(), err)
	}

	result := &DisjointResult{Kind: kind, NameA: c.A.Name(), NameB: c.B.Name()}
	for _, entryA := range bucketA.Entries {
		entryB, ok := bucketB.Get(entryA.QueryID)
		if !ok {
			return nil, fmt.Errorf("run %q has no %s entry for query %d", c.B.Name(), kind, entryA.QueryID)
		}

		de := DisjointEntry{
			Query:    fmt.Sprintf("Query_%d", entryA.QueryID),
			Question: entryA.Question,
			OnlyA:    missingFrom(entryA.Hits, entryB.Hits),
			OnlyB:    missingFrom(entryB.Hits, entryA.Hits),
		}
		de.Count = len(de.OnlyA) + len(de.OnlyB)
		if de.Count == 0 {
			continue
		}
		result.Entries = append(result.Entries, de)
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		return result.Entries[i].Count < result.Entries[j].Count
	})

	if highest && len(result.Entries) > 1 {
		result.Entries = result.Entries[len(result.Entries)-1:]
	}
	return result, nil
}

// missingFrom keeps the hits whose document id never occurs in other.
func missingFrom(hits, other []evaluation.Hit) []evaluation.Hit {
	ids := make(map[int]struct{}, len(other))
	for _, h := range other {
		ids[h.Doc.ID] = struct{}{}
	}
	var missing []evaluation.Hit
	for _, h := range hits {
		if _, ok := ids[h.Doc.ID]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}
