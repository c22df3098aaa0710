package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newESServer fakes an Elasticsearch node. The product header is
// required or the client rejects every response.
func newESServer(t *testing.T, handler http.HandlerFunc) *ESClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewESClient(ESConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestESClientSearch(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "5", "_score": 2.5, "_source": {"title": "hello"},
					 "highlight": {"title": ["<em>hello</em>"]}},
					{"_id": "9", "_score": 1.0, "_source": {"title": "bye"}}
				]
			}
		}`))
	})

	hits, err := client.Search(context.Background(), "articles", "greeting", 10, []string{"title"})
	require.NoError(t, err)

	assert.Equal(t, "/articles/_search", gotPath)
	assert.EqualValues(t, 10, gotBody["size"])
	multiMatch := gotBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "greeting", multiMatch["query"])

	require.Len(t, hits, 2)
	assert.Equal(t, 5, hits[0].ID)
	assert.Equal(t, 2.5, *hits[0].Score)
	assert.Equal(t, map[string]any{"title": "hello"}, hits[0].Source)
	assert.Equal(t, []string{"<em>hello</em>"}, hits[0].Highlight["title"])
	assert.Equal(t, 9, hits[1].ID)
	assert.Nil(t, hits[1].Highlight)
}

func TestESClientSearchRejectsNonNumericIDs(t *testing.T) {
	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 1}, "hits": [{"_id": "doc-a"}]}}`))
	})

	_, err := client.Search(context.Background(), "articles", "q", 10, []string{"title"})
	assert.ErrorContains(t, err, `parse doc id "doc-a"`)
}

func TestESClientSearchErrorStatus(t *testing.T) {
	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "bad query"}`))
	})

	_, err := client.Search(context.Background(), "articles", "q", 10, []string{"title"})
	assert.ErrorContains(t, err, "search status 400")
}

func TestESClientExplain(t *testing.T) {
	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/articles/_explain/42", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"matched": true,
			"explanation": {
				"value": 1.5,
				"description": "max of:",
				"details": [{"value": 1.5, "description": "sum of:", "details": []}]
			}
		}`))
	})

	expl, err := client.Explain(context.Background(), "articles", 42, "q", []string{"title"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, expl.Value)
	assert.Equal(t, "max of:", expl.Description)
	require.Len(t, expl.Details, 1)
}

func TestESClientExplainMissingExplanation(t *testing.T) {
	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matched": false}`))
	})

	_, err := client.Explain(context.Background(), "articles", 42, "q", []string{"title"})
	assert.ErrorContains(t, err, "no explanation")
}

func TestESClientPing(t *testing.T) {
	client := newESServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, client.Ping(context.Background()))
}
