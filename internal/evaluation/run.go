package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/relevancelab/searcheval/internal/metrics"
)

// DefaultFields are searched when a run does not name its own.
var DefaultFields = []string{"text", "title"}

const (
	DefaultSize = 20
	DefaultK    = 20
)

type RunConfig struct {
	// Name is the human-readable approach name used in reports.
	Name  string
	Index string
	// Fields to search on and to keep in structured hits.
	Fields []string
	// Size is the requested search size; raised to K internally when smaller.
	Size int
	// K is the rank cutoff for classification.
	K int
	// QueryIDs optionally narrows the evaluation to a subset of queries.
	QueryIDs []int
}

func (c *RunConfig) applyDefaults() {
	if len(c.Fields) == 0 {
		c.Fields = DefaultFields
	}
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.K <= 0 {
		c.K = DefaultK
	}
}

// Buckets groups the three classification distributions of one run.
type Buckets struct {
	TruePositives  *Bucket
	FalsePositives *Bucket
	FalseNegatives *Bucket
}

func (b *Buckets) Get(kind BucketKind) *Bucket {
	switch kind {
	case TruePositives:
		return b.TruePositives
	case FalsePositives:
		return b.FalsePositives
	case FalseNegatives:
		return b.FalseNegatives
	}
	return nil
}

// Run is one fully-configured evaluation: a backend binding, an index,
// a query dataset and a name. Buckets and metrics are computed on first
// request with one search round-trip per query, then cached for the
// run's lifetime. The populate path is mutex-guarded so concurrent first
// access cannot issue duplicate backend calls.
type Run struct {
	id     uuid.UUID
	cfg    RunConfig
	client backend.SearchClient
	ds     *dataset.Dataset

	mu         sync.Mutex
	buckets    *Buckets
	recall     *metrics.Result
	precision  *metrics.Result
	fscore     *metrics.Result
	fscoreBeta float64
}

// NewRun checks backend liveness and fails fast when it is unreachable.
func NewRun(ctx context.Context, client backend.SearchClient, ds *dataset.Dataset, cfg RunConfig) (*Run, error) {
	cfg.applyDefaults()
	if cfg.Name == "" {
		return nil, fmt.Errorf("run has no name")
	}
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("run %q has no queries", cfg.Name)
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("backend unreachable for run %q: %w", cfg.Name, err)
	}
	return &Run{id: uuid.New(), cfg: cfg, client: client, ds: ds}, nil
}

func (r *Run) ID() uuid.UUID { return r.id }

func (r *Run) Name() string { return r.cfg.Name }

func (r *Run) Index() string { return r.cfg.Index }

func (r *Run) Fields() []string { return r.cfg.Fields }

func (r *Run) K() int { return r.cfg.K }

func (r *Run) Dataset() *dataset.Dataset { return r.ds }

func (r *Run) Client() backend.SearchClient { return r.client }

// Buckets returns the three classification distributions, populating
// them on first access.
func (r *Run) Buckets(ctx context.Context) (*Buckets, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.populateLocked(ctx); err != nil {
		return nil, err
	}
	return r.buckets, nil
}

// Bucket returns a single distribution by kind.
func (r *Run) Bucket(ctx context.Context, kind BucketKind) (*Bucket, error) {
	buckets, err := r.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	b := buckets.Get(kind)
	if b == nil {
		return nil, fmt.Errorf("unknown bucket kind %q", kind)
	}
	return b, nil
}

// Recompute drops all cached buckets and metrics and evaluates again.
func (r *Run) Recompute(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = nil
	r.recall = nil
	r.precision = nil
	r.fscore = nil
	return r.populateLocked(ctx)
}

// populateLocked issues one blocking search per query, sequentially, and
// classifies each ranked list into the three buckets. Callers hold r.mu.
func (r *Run) populateLocked(ctx context.Context) error {
	if r.buckets != nil {
		return nil
	}

	queries, err := r.ds.Select(r.cfg.QueryIDs)
	if err != nil {
		return fmt.Errorf("select queries for run %q: %w", r.cfg.Name, err)
	}

	size := EffectiveSize(r.cfg.Size, r.cfg.K)
	buckets := &Buckets{
		TruePositives:  &Bucket{Kind: TruePositives},
		FalsePositives: &Bucket{Kind: FalsePositives},
		FalseNegatives: &Bucket{Kind: FalseNegatives},
	}

	for _, q := range queries {
		ranked, err := r.client.Search(ctx, r.cfg.Index, q.Question, size, r.cfg.Fields)
		if err != nil {
			return fmt.Errorf("search query %d for run %q: %w", q.ID, r.cfg.Name, err)
		}

		c := Classify(q, ranked, r.cfg.Fields, r.cfg.K)
		buckets.TruePositives.Entries = append(buckets.TruePositives.Entries,
			QueryBucket{QueryID: q.ID, Question: q.Question, Hits: c.TruePositives})
		buckets.FalsePositives.Entries = append(buckets.FalsePositives.Entries,
			QueryBucket{QueryID: q.ID, Question: q.Question, Hits: c.FalsePositives})
		buckets.FalseNegatives.Entries = append(buckets.FalseNegatives.Entries,
			QueryBucket{QueryID: q.ID, Question: q.Question, Hits: c.FalseNegatives})
	}

	slog.Info("Evaluation run populated",
		"run", r.cfg.Name,
		"index", r.cfg.Index,
		"queries", len(queries),
		"k", r.cfg.K,
		"size", size)

	r.buckets = buckets
	return nil
}

// Recall returns per-query recall sorted ascending plus the total: the
// sum of per-query values divided by the dataset's query count.
func (r *Run) Recall(ctx context.Context) (*metrics.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recallLocked(ctx)
}

func (r *Run) recallLocked(ctx context.Context) (*metrics.Result, error) {
	if r.recall != nil {
		return r.recall, nil
	}
	if err := r.populateLocked(ctx); err != nil {
		return nil, err
	}

	entries := make([]metrics.Entry, 0, len(r.buckets.TruePositives.Entries))
	var sum float64
	for _, tp := range r.buckets.TruePositives.Entries {
		fn, _ := r.buckets.FalseNegatives.Get(tp.QueryID)
		value := metrics.Recall(len(tp.Hits), len(fn.Hits))
		entries = append(entries, metrics.Entry{Query: queryKey(tp.QueryID), Value: value})
		sum += value
	}

	r.recall = metrics.NewResult(metrics.KindRecall, entries, sum/float64(r.ds.Len()))
	return r.recall, nil
}

// Precision returns per-query precision sorted ascending plus the total.
func (r *Run) Precision(ctx context.Context) (*metrics.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.precisionLocked(ctx)
}

func (r *Run) precisionLocked(ctx context.Context) (*metrics.Result, error) {
	if r.precision != nil {
		return r.precision, nil
	}
	if err := r.populateLocked(ctx); err != nil {
		return nil, err
	}

	entries := make([]metrics.Entry, 0, len(r.buckets.TruePositives.Entries))
	var sum float64
	for _, tp := range r.buckets.TruePositives.Entries {
		fp, _ := r.buckets.FalsePositives.Get(tp.QueryID)
		value := metrics.Precision(len(tp.Hits), len(fp.Hits))
		entries = append(entries, metrics.Entry{Query: queryKey(tp.QueryID), Value: value})
		sum += value
	}

	r.precision = metrics.NewResult(metrics.KindPrecision, entries, sum/float64(r.ds.Len()))
	return r.precision, nil
}

// FScore returns the weighted F-score per query sorted ascending. The
// total is derived from the total precision and total recall, not from
// averaging the per-query scores.
func (r *Run) FScore(ctx context.Context, beta float64) (*metrics.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fscore != nil && r.fscoreBeta == beta {
		return r.fscore, nil
	}

	recall, err := r.recallLocked(ctx)
	if err != nil {
		return nil, err
	}
	precision, err := r.precisionLocked(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]metrics.Entry, 0, len(precision.Entries))
	for _, p := range precision.Entries {
		rec, _ := recall.Get(p.Query)
		entries = append(entries, metrics.Entry{
			Query: p.Query,
			Value: metrics.FScore(p.Value, rec, beta),
		})
	}

	r.fscore = metrics.NewResult(metrics.KindFScore, entries, metrics.FScore(precision.Total, recall.Total, beta))
	r.fscoreBeta = beta
	return r.fscore, nil
}

// Metric dispatches by metric kind; comparisons use it to stay generic.
func (r *Run) Metric(ctx context.Context, kind metrics.Kind, beta float64) (*metrics.Result, error) {
	switch kind {
	case metrics.KindRecall:
		return r.Recall(ctx)
	case metrics.KindPrecision:
		return r.Precision(ctx)
	case metrics.KindFScore:
		return r.FScore(ctx, beta)
	}
	return nil, fmt.Errorf("unknown metric kind %q", kind)
}

// CountDistribution counts one of the run's buckets per query.
func (r *Run) CountDistribution(ctx context.Context, kind BucketKind) (*metrics.Distribution, error) {
	b, err := r.Bucket(ctx, kind)
	if err != nil {
		return nil, err
	}
	return metrics.CountDistribution(string(kind), DistributionInputs(b, r.ds), r.cfg.K), nil
}

// DistributionInputs pairs a bucket's per-query hit counts with the
// dataset's relevant-document counts. It also serves buckets parsed back
// from interchange JSON.
func DistributionInputs(b *Bucket, ds *dataset.Dataset) []metrics.DistributionInput {
	inputs := make([]metrics.DistributionInput, 0, len(b.Entries))
	for _, e := range b.Entries {
		var relevant int
		if q, ok := ds.Get(e.QueryID); ok {
			relevant = q.Relevant.Len()
		}
		inputs = append(inputs, metrics.DistributionInput{
			Query:         queryKey(e.QueryID),
			Count:         len(e.Hits),
			RelevantCount: relevant,
		})
	}
	return inputs
}

// CountDistributionJSON computes a distribution from a bucket's JSON
// dump instead of a live run, so exported results can be re-analyzed
// without a search backend.
func CountDistributionJSON(data []byte, kind BucketKind, ds *dataset.Dataset, k int) (*metrics.Distribution, error) {
	b, err := ParseBucket(data, kind)
	if err != nil {
		return nil, err
	}
	return metrics.CountDistribution(string(kind), DistributionInputs(b, ds), k), nil
}

func queryKey(id int) string { return fmt.Sprintf("Query_%d", id) }
