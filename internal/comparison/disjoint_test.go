package comparison

import (
	"context"
	"testing"

	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDisjointSetsIdenticalRuns(t *testing.T) {
	ds := comparisonDataset(t)

	results := map[string][]backend.SearchHit{
		"alpha": {hit(1, 2.0), hit(2, 1.0)},
		"beta":  {hit(3, 1.5)},
	}
	mockA := backend.NewMock()
	mockA.ResultsByQuery = results
	mockB := backend.NewMock()
	mockB.ResultsByQuery = results

	cmp := New(newRun(t, "base", ds, mockA), newRun(t, "cand", ds, mockB))

	for _, kind := range []evaluation.BucketKind{
		evaluation.TruePositives,
		evaluation.FalsePositives,
		evaluation.FalseNegatives,
	} {
		result, err := cmp.GetDisjointSets(context.Background(), kind, false)
		require.NoError(t, err)
		assert.Empty(t, result.Entries, "identical %s buckets have no disjoint hits", kind)
	}
}

func TestGetDisjointSets(t *testing.T) {
	cmp, _, _ := newTestComparison(t)

	result, err := cmp.GetDisjointSets(context.Background(), evaluation.TruePositives, false)
	require.NoError(t, err)

	assert.Equal(t, evaluation.TruePositives, result.Kind)
	require.Len(t, result.Entries, 2)

	// Ascending by disjoint count: query 1 first (doc 2 only in base),
	// then query 2 (doc 3 only in cand).
	first := result.Entries[0]
	assert.Equal(t, "Query_1", first.Query)
	assert.Equal(t, "alpha", first.Question)
	require.Len(t, first.OnlyA, 1)
	assert.Equal(t, 2, first.OnlyA[0].Doc.ID)
	assert.Empty(t, first.OnlyB)
	assert.Equal(t, 1, first.Count)

	second := result.Entries[1]
	assert.Equal(t, "Query_2", second.Query)
	require.Len(t, second.OnlyB, 1)
	assert.Equal(t, 3, second.OnlyB[0].Doc.ID)
}

func TestGetDisjointSetsHighest(t *testing.T) {
	cmp, _, _ := newTestComparison(t)

	result, err := cmp.GetDisjointSets(context.Background(), evaluation.FalseNegatives, true)
	require.NoError(t, err)

	// Only the query with the largest disjoint count survives.
	require.Len(t, result.Entries, 1)
}
