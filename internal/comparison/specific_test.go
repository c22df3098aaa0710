package comparison

import (
	"context"
	"testing"

	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explanation(value float64, term string) *backend.Explanation {
	weight := &backend.Explanation{
		Value:       value,
		Description: "weight(title:" + term + " in 0) [PerFieldSimilarity], result of:",
	}
	branch := &backend.Explanation{
		Value:       value,
		Description: "sum of:",
		Details:     []*backend.Explanation{weight},
	}
	return &backend.Explanation{
		Value:       value,
		Description: "max of:",
		Details:     []*backend.Explanation{branch},
	}
}

func TestGetSpecificComparison(t *testing.T) {
	cmp, _, _ := newTestComparison(t)

	// Document 2 is a true positive in base; cand never retrieved it, so
	// it sits in cand's false negatives as a sentinel.
	result, err := cmp.GetSpecificComparison(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.QueryID)
	assert.Equal(t, "alpha", result.Question)
	assert.Equal(t, map[string]any{"title": "doc"}, result.Document)

	base := result.PerRun["base"]
	require.NotNil(t, base)
	assert.Equal(t, evaluation.TruePositives, base.Bucket)
	assert.Equal(t, 2, base.Position)
	assert.Equal(t, 1.0, *base.Score)

	cand := result.PerRun["cand"]
	require.NotNil(t, cand)
	assert.Equal(t, evaluation.FalseNegatives, cand.Bucket)
	assert.Equal(t, evaluation.SentinelPosition, cand.Position)
	assert.Nil(t, cand.Score)
}

func TestGetSpecificComparisonDocumentInNoBucket(t *testing.T) {
	cmp, _, _ := newTestComparison(t)

	// An irrelevant document neither run returned lands in no bucket.
	result, err := cmp.GetSpecificComparison(context.Background(), 2, 99)
	require.NoError(t, err)

	assert.Nil(t, result.PerRun["base"])
	assert.Nil(t, result.PerRun["cand"])
	assert.Nil(t, result.Document)
}

func TestGetSpecificComparisonUnknownQuery(t *testing.T) {
	cmp, _, _ := newTestComparison(t)

	_, err := cmp.GetSpecificComparison(context.Background(), 42, 1)
	assert.ErrorContains(t, err, "unknown query id 42")
}

func TestGetTermScores(t *testing.T) {
	cmp, mockA, mockB := newTestComparison(t)
	mockA.ExplainByDoc[2] = explanation(2.0, "alpha")
	mockB.ExplainByDoc[2] = explanation(1.0, "beta")

	ts, err := cmp.GetTermScores(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, "base", ts.NameA)
	assert.Equal(t, "cand", ts.NameB)
	assert.Equal(t, []string{"title: alpha", "title: beta"}, ts.Terms)

	// Terms missing from a run score 0 in its column.
	assert.Equal(t, []float64{2.0, 0}, ts.Scores["base"])
	assert.Equal(t, []float64{0, 1.0}, ts.Scores["cand"])
}

func TestGetTermScoresExplainFailure(t *testing.T) {
	cmp, mockA, _ := newTestComparison(t)
	mockA.ExplainByDoc[2] = explanation(2.0, "alpha")
	// cand has no explanation configured for doc 2.

	_, err := cmp.GetTermScores(context.Background(), 1, 2)
	assert.ErrorContains(t, err, `explain doc 2 for run "cand"`)
}
