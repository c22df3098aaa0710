package evaluation

import (
	"testing"

	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func hit(id int, s float64) backend.SearchHit {
	return backend.SearchHit{ID: id, Score: score(s), Source: map[string]any{"text": "body"}}
}

func docIDs(hits []Hit) []int {
	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.Doc.ID)
	}
	return ids
}

func TestEffectiveSize(t *testing.T) {
	assert.Equal(t, 20, EffectiveSize(10, 20))
	assert.Equal(t, 30, EffectiveSize(30, 20))
	assert.Equal(t, 20, EffectiveSize(20, 20))
}

func TestClassifyPartitionsRankedHits(t *testing.T) {
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(5, 9)}
	ranked := []backend.SearchHit{hit(5, 3.0), hit(3, 2.0), hit(9, 1.0)}

	c := Classify(q, ranked, []string{"text"}, 2)

	require.Len(t, c.TruePositives, 1)
	assert.Equal(t, 5, c.TruePositives[0].Doc.ID)
	assert.Equal(t, 1, c.TruePositives[0].Position)

	// Rank 2 equals the cutoff: the strict comparison excludes it.
	assert.Empty(t, c.FalsePositives)

	require.Len(t, c.FalseNegatives, 1)
	assert.Equal(t, 9, c.FalseNegatives[0].Doc.ID)
	assert.Equal(t, 3, c.FalseNegatives[0].Position)
	assert.Equal(t, 1.0, *c.FalseNegatives[0].Score)
}

func TestClassifyCutoffBoundary(t *testing.T) {
	// Relevant hit at exactly rank k counts as a true positive; an
	// irrelevant hit at the same rank is not a false positive.
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(10)}
	k := 3

	t.Run("relevant at rank k", func(t *testing.T) {
		ranked := []backend.SearchHit{hit(1, 3.0), hit(2, 2.0), hit(10, 1.0)}
		c := Classify(q, ranked, []string{"text"}, k)
		assert.Equal(t, []int{10}, docIDs(c.TruePositives))
		assert.Empty(t, c.FalseNegatives)
	})

	t.Run("irrelevant at rank k", func(t *testing.T) {
		ranked := []backend.SearchHit{hit(10, 3.0), hit(1, 2.0), hit(2, 1.0)}
		c := Classify(q, ranked, []string{"text"}, k)
		assert.Equal(t, []int{1}, docIDs(c.FalsePositives), "rank k-1 is a false positive")
		assert.Equal(t, 2, c.FalsePositives[0].Position)
	})
}

func TestClassifyEmptyResults(t *testing.T) {
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(7)}

	c := Classify(q, nil, []string{"text"}, 5)

	assert.Empty(t, c.TruePositives)
	assert.Empty(t, c.FalsePositives)
	require.Len(t, c.FalseNegatives, 1)
	fn := c.FalseNegatives[0]
	assert.Equal(t, 7, fn.Doc.ID)
	assert.Equal(t, SentinelPosition, fn.Position)
	assert.Nil(t, fn.Score)
}

func TestClassifyRoundTrip(t *testing.T) {
	// k equals the result size and every returned document is relevant:
	// nothing is misclassified.
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(1, 2, 3)}
	ranked := []backend.SearchHit{hit(1, 3.0), hit(2, 2.0), hit(3, 1.0)}

	c := Classify(q, ranked, []string{"text"}, 3)

	assert.Equal(t, []int{1, 2, 3}, docIDs(c.TruePositives))
	assert.Empty(t, c.FalsePositives)
	assert.Empty(t, c.FalseNegatives)
}

func TestClassifyFalseNegativeOrdering(t *testing.T) {
	// Never-retrieved documents come first, sorted by id, then the
	// rank-found ones in ranked order.
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(1, 2, 50, 60)}
	ranked := []backend.SearchHit{hit(2, 4.0), hit(8, 3.0), hit(60, 2.0), hit(50, 1.0)}

	c := Classify(q, ranked, []string{"text"}, 3)

	assert.Equal(t, []int{2, 60}, docIDs(c.TruePositives))
	assert.Equal(t, []int{8}, docIDs(c.FalsePositives))

	require.Equal(t, []int{1, 50}, docIDs(c.FalseNegatives))
	assert.Equal(t, SentinelPosition, c.FalseNegatives[0].Position)
	assert.Equal(t, 4, c.FalseNegatives[1].Position)
}

func TestClassifyConsumesRelevantOnce(t *testing.T) {
	// A relevant document returned twice is accounted for at its first
	// occurrence only.
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(5)}
	ranked := []backend.SearchHit{hit(1, 4.0), hit(5, 3.0), hit(5, 2.0)}

	c := Classify(q, ranked, []string{"text"}, 1)

	assert.Empty(t, c.TruePositives)
	require.Len(t, c.FalseNegatives, 1)
	assert.Equal(t, 2, c.FalseNegatives[0].Position)
}

func TestClassifyKeepsOnlyRequestedFields(t *testing.T) {
	q := dataset.Query{ID: 1, Question: "q", Relevant: dataset.NewRelevanceSet(5)}
	ranked := []backend.SearchHit{
		{
			ID:    5,
			Score: score(1.5),
			Source: map[string]any{
				"title": "Resetting passwords",
				"text":  "Open settings and choose reset.",
				"tags":  []any{"account"},
			},
			Highlight: map[string][]string{
				"title": {"<em>Resetting</em> passwords"},
				"tags":  {"<em>account</em>"},
			},
		},
	}

	c := Classify(q, ranked, []string{"title", "missing"}, 1)

	require.Len(t, c.TruePositives, 1)
	tp := c.TruePositives[0]
	assert.Equal(t, map[string]any{"title": "Resetting passwords"}, tp.Doc.Fields)
	assert.Equal(t, map[string][]string{"title": {"<em>Resetting</em> passwords"}}, tp.Highlight)
}
