package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultReadTimeout = 120 * time.Second

type ESConfig struct {
	Addresses   []string
	Username    string
	Password    string
	ReadTimeout time.Duration
}

// ESClient implements SearchClient against Elasticsearch using
// multi_match queries with wildcard highlighting.
type ESClient struct {
	client *elasticsearch.Client
}

func NewESClient(cfg ESConfig) (*ESClient, error) {
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Transport: &http.Transport{
			ResponseHeaderTimeout: readTimeout,
		},
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &ESClient{client: client}, nil
}

type searchBody struct {
	Size      int            `json:"size"`
	Query     queryClause    `json:"query"`
	Highlight map[string]any `json:"highlight"`
}

type queryClause struct {
	MultiMatch multiMatchClause `json:"multi_match"`
}

type multiMatchClause struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

func (c *ESClient) Search(ctx context.Context, index, query string, size int, fields []string) ([]SearchHit, error) {
	body := searchBody{
		Size:  size,
		Query: queryClause{MultiMatch: multiMatchClause{Query: query, Fields: fields}},
		Highlight: map[string]any{
			"fields": map[string]any{"*": map[string]any{}},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	slog.Debug("Executing es multi_match search", "index", index, "query", query, "size", size, "fields", fields)

	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(index),
		c.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			return nil, fmt.Errorf("parse doc id %q: %w", h.ID, err)
		}
		var source map[string]any
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &source); err != nil {
				return nil, fmt.Errorf("parse doc %d source: %w", id, err)
			}
		}
		hits = append(hits, SearchHit{
			ID:        id,
			Score:     h.Score,
			Source:    source,
			Highlight: h.Highlight,
		})
	}

	slog.Debug("Es search results fetched",
		"index", index,
		"total_matches", parsed.Hits.Total.Value,
		"returned_count", len(hits))

	return hits, nil
}

func (c *ESClient) Explain(ctx context.Context, index string, docID int, query string, fields []string) (*Explanation, error) {
	body := struct {
		Query queryClause `json:"query"`
	}{
		Query: queryClause{MultiMatch: multiMatchClause{Query: query, Fields: fields}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode explain body: %w", err)
	}

	res, err := c.client.Explain(
		index,
		strconv.Itoa(docID),
		c.client.Explain.WithContext(ctx),
		c.client.Explain.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("execute explain: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("explain", res)
	}

	var parsed struct {
		Matched     bool         `json:"matched"`
		Explanation *Explanation `json:"explanation"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse explain response: %w", err)
	}
	if parsed.Explanation == nil {
		return nil, fmt.Errorf("explain response for doc %d has no explanation", docID)
	}
	return parsed.Explanation, nil
}

func (c *ESClient) Ping(ctx context.Context) error {
	res, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("ping", res)
	}
	return nil
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("%s status %d: %s", op, res.StatusCode, string(body))
}

type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

type esHit struct {
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

var _ SearchClient = (*ESClient)(nil)
