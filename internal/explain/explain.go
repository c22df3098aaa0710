// Package explain decomposes a backend's score explanation tree into
// per-field, per-term contributions.
package explain

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/relevancelab/searcheval/internal/backend"
)

// ScoreFunction is one scoring function's contribution to a field match.
type ScoreFunction struct {
	Value       float64
	Description string
	// DocFreq is n, the number of documents containing the term.
	DocFreq float64
	// TermFreq is the number of occurrences of the term within the document.
	TermFreq float64
}

// FieldBreakdown groups the scoring functions contributing to one field.
type FieldBreakdown struct {
	TotalValue float64
	Functions  []ScoreFunction
}

// Breakdown is the decomposed explanation for one (query, document)
// pair. When the backend scored the pair 0 the tree is left unprocessed
// and returned as Raw.
type Breakdown struct {
	Score  float64
	Fields map[string]FieldBreakdown
	Raw    *backend.Explanation
}

var (
	docFreqPrefix = "n, number of documents"
	freqPattern   = regexp.MustCompile(`[Ff]req`)
)

// Query fetches and decomposes the explanation for one document against
// one query.
func Query(ctx context.Context, client backend.SearchClient, index string, docID int, question string, fields []string) (*Breakdown, error) {
	expl, err := client.Explain(ctx, index, docID, question, fields)
	if err != nil {
		return nil, err
	}
	return Decompose(expl, fields), nil
}

// Decompose walks the explanation tree. The top level is either a
// "max of:" combination across fields or a single-field explanation,
// normalized to a one-branch list. Each branch is attributed to the
// first configured field whose name occurs in the branch's description;
// no match yields the empty field key.
func Decompose(expl *backend.Explanation, fields []string) *Breakdown {
	b := &Breakdown{Score: expl.Value, Fields: make(map[string]FieldBreakdown)}

	if b.Score == 0 {
		slog.Warn("Explanation score is 0; check the index, the fields and the query parameters")
		b.Raw = expl
		return b
	}

	branches := expl.Details
	if expl.Description != "max of:" {
		branches = []*backend.Explanation{expl}
	}

	for _, el := range branches {
		if len(el.Details) == 0 {
			continue
		}

		field := matchField(fields, el.Details[0].Description)
		fb := FieldBreakdown{TotalValue: el.Details[0].Value}

		for _, detail := range el.Details {
			fn := ScoreFunction{Value: detail.Value, Description: detail.Description}
			fn.DocFreq, fn.TermFreq = frequencies(detail)
			fb.Functions = append(fb.Functions, fn)
		}
		b.Fields[field] = fb
	}
	return b
}

// frequencies digs the document and term frequencies out of a scoring
// function's nested detail nodes, defaulting to 0 when absent.
func frequencies(detail *backend.Explanation) (docFreq, termFreq float64) {
	if len(detail.Details) == 0 {
		return 0, 0
	}
	for _, val := range detail.Details[0].Details {
		if len(val.Details) == 0 {
			continue
		}
		node := val.Details[0]
		if strings.HasPrefix(node.Description, docFreqPrefix) {
			docFreq = node.Value
		}
		if freqPattern.MatchString(node.Description) {
			termFreq = node.Value
		}
	}
	return docFreq, termFreq
}

func matchField(fields []string, description string) string {
	for _, f := range fields {
		if strings.Contains(description, f) {
			return f
		}
	}
	return ""
}
