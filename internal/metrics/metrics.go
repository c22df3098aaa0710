// Package metrics derives retrieval quality metrics from classification
// counts: recall, precision, weighted F-score and bucket distributions.
package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// Kind names a metric in results and interchange output.
type Kind string

const (
	KindRecall    Kind = "recall"
	KindPrecision Kind = "precision"
	KindFScore    Kind = "fscore"
)

// Recall computes tp / (tp + fn). A zero denominator is a data-quality
// signal, not a failure: it logs a warning and yields 0.
func Recall(tp, fn int) float64 {
	if tp+fn == 0 {
		slog.Warn("Sum of true positives and false negatives is 0; " +
			"check the index, the queries and the searched fields")
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

// Precision computes tp / (tp + fp), recovering to 0 with a warning on a
// zero denominator.
func Precision(tp, fp int) float64 {
	if tp+fp == 0 {
		slog.Warn("Sum of true positives and false positives is 0; " +
			"check the index, the queries and the searched fields")
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// FScore computes the weighted harmonic mean of precision and recall for
// a weighting factor beta (1 yields F1). When both inputs are 0 it warns
// and returns 0; a single zero input flows through the formula, which
// yields 0 on its own.
func FScore(precision, recall, beta float64) float64 {
	if precision == 0 && recall == 0 {
		slog.Warn("The value of precision and recall is 0")
		return 0
	}
	if beta == 1 {
		return (2 * precision * recall) / (precision + recall)
	}
	return (1 + beta*beta) * ((precision * recall) / (beta*beta*precision + recall))
}

// Entry is one query's metric value.
type Entry struct {
	Query string
	Value float64
}

// Result holds per-query metric values sorted ascending by value, plus
// the aggregate total presented last.
type Result struct {
	Name    Kind
	Entries []Entry
	Total   float64
}

// NewResult sorts the entries ascending by value, keeping input order
// between equal values.
func NewResult(name Kind, entries []Entry, total float64) *Result {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	return &Result{Name: name, Entries: sorted, Total: total}
}

// Get returns the value for a query key.
func (r *Result) Get(query string) (float64, bool) {
	for _, e := range r.Entries {
		if e.Query == query {
			return e.Value, true
		}
	}
	return 0, false
}

// MarshalJSON renders the interchange form: "Query_<id>" keys in
// ascending value order with the trailing "total".
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, e := range r.Entries {
		key, err := json.Marshal(e.Query)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":{%q:", r.Name)
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
		buf.WriteString("},")
	}
	buf.WriteString(`"total":`)
	total, err := json.Marshal(r.Total)
	if err != nil {
		return nil, err
	}
	buf.Write(total)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
