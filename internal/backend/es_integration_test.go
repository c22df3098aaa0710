package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	pkgtesting "github.com/relevancelab/searcheval/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexDoc(t *testing.T, address string, id int, body string) {
	t.Helper()
	url := fmt.Sprintf("%s/articles/_doc/%d?refresh=true", address, id)
	req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Less(t, res.StatusCode, 300, "indexing doc %d", id)
}

func TestESClientAgainstLiveNode(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	es := pkgtesting.NewESContainer(ctx, t)

	client, err := NewESClient(ESConfig{Addresses: []string{es.Address}})
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx))

	indexDoc(t, es.Address, 1, `{"title": "resetting your password", "text": "open account settings"}`)
	indexDoc(t, es.Address, 2, `{"title": "billing address changes", "text": "invoices and payment"}`)

	hits, err := client.Search(ctx, "articles", "password", 10, []string{"text", "title"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].ID)
	assert.NotNil(t, hits[0].Score)
	assert.Equal(t, "resetting your password", hits[0].Source["title"])
	assert.NotEmpty(t, hits[0].Highlight["title"])

	expl, err := client.Explain(ctx, "articles", 1, "password", []string{"text", "title"})
	require.NoError(t, err)
	assert.Greater(t, expl.Value, 0.0)
	assert.NotEmpty(t, expl.Details)
}
