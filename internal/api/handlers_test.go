package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/relevancelab/searcheval/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func newTestServer(t *testing.T) (*Server, *backend.Mock, store.RunStore) {
	t.Helper()

	ds, err := dataset.New([]dataset.Query{
		{ID: 1, Question: "alpha", Relevant: dataset.NewRelevanceSet(5)},
		{ID: 2, Question: "beta", Relevant: dataset.NewRelevanceSet(7)},
	})
	require.NoError(t, err)

	m := backend.NewMock()
	m.ResultsByQuery["alpha"] = []backend.SearchHit{
		{ID: 5, Score: score(2.0), Source: map[string]any{"text": "body"}},
	}
	m.ResultsByQuery["beta"] = []backend.SearchHit{
		{ID: 7, Score: score(1.0), Source: map[string]any{"text": "body"}},
	}

	runs := store.NewMemoryStore()
	return New(Config{Addr: ":0"}, m, ds, runs), m, runs
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestCreateEvaluation(t *testing.T) {
	s, _, runs := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/evaluations",
		`{"name":"baseline","index":"articles","k":5,"size":5}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Run struct {
			ID          uuid.UUID `json:"id"`
			Name        string    `json:"name"`
			RecallTotal float64   `json:"recall_total"`
		} `json:"run"`
		Palette []string `json:"palette"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "baseline", resp.Run.Name)
	assert.InDelta(t, 1.0, resp.Run.RecallTotal, 1e-9)
	assert.Len(t, resp.Palette, 7)

	saved, err := runs.GetRun(context.Background(), resp.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, "articles", saved.Index)
}

func TestCreateEvaluationValidation(t *testing.T) {
	s, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing name", body: `{"index":"articles"}`, want: "needs a name"},
		{name: "missing index", body: `{"name":"baseline"}`, want: "needs an index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/api/v1/evaluations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGetRunNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/runs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRunInvalidID(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/runs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid run id")
}

func TestListRuns(t *testing.T) {
	s, _, _ := newTestServer(t)

	created := doRequest(s, http.MethodPost, "/api/v1/evaluations",
		`{"name":"baseline","index":"articles"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doRequest(s, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var records []store.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "baseline", records[0].Name)
}

func TestHealth(t *testing.T) {
	s, m, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	m.PingErr = assert.AnError
	rec = doRequest(s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
