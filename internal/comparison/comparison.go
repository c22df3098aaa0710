// Package comparison diffs two fully-evaluated runs of the same query
// dataset: per-query metric deltas, disjoint result sets and per-term
// scoring contrasts.
package comparison

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/metrics"
)

// Comparison owns exactly two evaluation runs over the same queries.
type Comparison struct {
	A *Run
	B *Run
	// Beta weights the F-score when it is the compared metric.
	Beta float64
}

// Run aliases the evaluation run to keep signatures short.
type Run = evaluation.Run

func New(a, b *Run) *Comparison {
	return &Comparison{A: a, B: b, Beta: 1}
}

// DiffEntry records both runs' values for one query and their absolute
// difference.
type DiffEntry struct {
	Query string
	A     float64
	B     float64
	Diff  float64
}

// Diff holds per-query metric deltas sorted ascending by difference,
// with the aggregate comparison last.
type Diff struct {
	Metric  metrics.Kind
	NameA   string
	NameB   string
	Entries []DiffEntry
	Total   DiffEntry
}

// CalculateDifference compares one metric across both runs per query.
func (c *Comparison) CalculateDifference(ctx context.Context, kind metrics.Kind) (*Diff, error) {
	resA, err := c.A.Metric(ctx, kind, c.Beta)
	if err != nil {
		return nil, fmt.Errorf("metric %s for run %q: %w", kind, c.A.Name(), err)
	}
	resB, err := c.B.Metric(ctx, kind, c.Beta)
	if err != nil {
		return nil, fmt.Errorf("metric %s for run %q: %w", kind, c.B.Name(), err)
	}

	d := &Diff{Metric: kind, NameA: c.A.Name(), NameB: c.B.Name()}
	for _, e := range resA.Entries {
		bval, ok := resB.Get(e.Query)
		if !ok {
			return nil, fmt.Errorf("run %q has no %s value for %s", c.B.Name(), kind, e.Query)
		}
		d.Entries = append(d.Entries, DiffEntry{
			Query: e.Query,
			A:     e.Value,
			B:     bval,
			Diff:  math.Abs(e.Value - bval),
		})
	}

	sort.SliceStable(d.Entries, func(i, j int) bool { return d.Entries[i].Diff < d.Entries[j].Diff })

	d.Total = DiffEntry{
		Query: "total",
		A:     resA.Total,
		B:     resB.Total,
		Diff:  math.Abs(resA.Total - resB.Total),
	}
	return d, nil
}

// MarshalJSON renders the interchange form: query keys in ascending
// difference order, each holding both runs' values under their names
// and the delta under "<metric>_diffs", with "total" last.
func (d *Diff) MarshalJSON() ([]byte, error) {
	diffKey := string(d.Metric) + "_diffs"

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeEntry := func(e DiffEntry) error {
		key, err := json.Marshal(e.Query)
		if err != nil {
			return err
		}
		buf.Write(key)
		val, err := json.Marshal(map[string]float64{
			d.NameA: e.A,
			d.NameB: e.B,
			diffKey: e.Diff,
		})
		if err != nil {
			return err
		}
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	for _, e := range d.Entries {
		if err := writeEntry(e); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeEntry(d.Total); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
