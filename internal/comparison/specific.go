package comparison

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/explain"
)

// HitLocation describes where one run classified a document and how the
// backend ranked it there.
type HitLocation struct {
	Bucket    evaluation.BucketKind
	Position  int
	Score     *float64
	Highlight map[string][]string
}

// SpecificResult contrasts one (query, document) pair across both runs.
// A run missing the document has a nil location.
type SpecificResult struct {
	QueryID  int
	Question string
	Document map[string]any
	PerRun   map[string]*HitLocation
}

var bucketOrder = []evaluation.BucketKind{
	evaluation.TruePositives,
	evaluation.FalsePositives,
	evaluation.FalseNegatives,
}

// GetSpecificComparison locates a document's classification
// independently in each run. When a run never returned the document at
// all, a warning names the result-size cutoff as the likely cause.
func (c *Comparison) GetSpecificComparison(ctx context.Context, queryID, docID int) (*SpecificResult, error) {
	q, ok := c.A.Dataset().Get(queryID)
	if !ok {
		return nil, fmt.Errorf("unknown query id %d", queryID)
	}

	result := &SpecificResult{
		QueryID:  queryID,
		Question: q.Question,
		PerRun:   make(map[string]*HitLocation, 2),
	}

	for _, run := range []*Run{c.A, c.B} {
		loc, doc, err := locateHit(ctx, run, queryID, docID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			slog.Warn("No hit for query and document; the search size may be too small",
				"run", run.Name(),
				"query", queryID,
				"doc", docID,
				"size_default", evaluation.DefaultSize)
		}
		result.PerRun[run.Name()] = loc
		if result.Document == nil && doc != nil {
			result.Document = doc
		}
	}
	return result, nil
}

// locateHit searches the run's buckets in classification order and
// returns the first occurrence of the document.
func locateHit(ctx context.Context, run *Run, queryID, docID int) (*HitLocation, map[string]any, error) {
	buckets, err := run.Buckets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("buckets for run %q: %w", run.Name(), err)
	}

	for _, kind := range bucketOrder {
		entry, ok := buckets.Get(kind).Get(queryID)
		if !ok {
			continue
		}
		for _, h := range entry.Hits {
			if h.Doc.ID != docID {
				continue
			}
			loc := &HitLocation{
				Bucket:    kind,
				Position:  h.Position,
				Score:     h.Score,
				Highlight: h.Highlight,
			}
			return loc, h.Doc.Fields, nil
		}
	}
	return nil, nil, nil
}

// TermScores contrasts per-term scoring of one document across both
// runs. Terms is the sorted union of "field: terms" keys; a term absent
// from one run scores 0 in that run's column.
type TermScores struct {
	NameA  string
	NameB  string
	Terms  []string
	Scores map[string][]float64
}

// GetTermScores explains the (query, document) pair against each run's
// backend and reconciles the per-term score tables.
func (c *Comparison) GetTermScores(ctx context.Context, queryID, docID int) (*TermScores, error) {
	q, ok := c.A.Dataset().Get(queryID)
	if !ok {
		return nil, fmt.Errorf("unknown query id %d", queryID)
	}

	perRun := make(map[string]map[string]float64, 2)
	for _, run := range []*Run{c.A, c.B} {
		scores, err := runTermScores(ctx, run, docID, q.Question)
		if err != nil {
			return nil, err
		}
		perRun[run.Name()] = scores
	}

	union := make(map[string]struct{})
	for _, scores := range perRun {
		for term := range scores {
			union[term] = struct{}{}
		}
	}
	terms := make([]string, 0, len(union))
	for term := range union {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	ts := &TermScores{
		NameA:  c.A.Name(),
		NameB:  c.B.Name(),
		Terms:  terms,
		Scores: make(map[string][]float64, len(perRun)),
	}
	for name, scores := range perRun {
		column := make([]float64, len(terms))
		for i, term := range terms {
			column[i] = scores[term]
		}
		ts.Scores[name] = column
	}
	return ts, nil
}

func runTermScores(ctx context.Context, run *Run, docID int, question string) (map[string]float64, error) {
	breakdown, err := explain.Query(ctx, run.Client(), run.Index(), docID, question, run.Fields())
	if err != nil {
		return nil, fmt.Errorf("explain doc %d for run %q: %w", docID, run.Name(), err)
	}

	scores := make(map[string]float64)
	for _, field := range run.Fields() {
		fb, ok := breakdown.Fields[field]
		if !ok {
			continue
		}
		for _, fn := range fb.Functions {
			key := field + ": " + explain.ExtractTerms(fn.Description)
			scores[key] = fn.Value
		}
	}
	return scores, nil
}
