package evaluation

import (
	"sort"

	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/dataset"
)

// Classification holds one query's hits partitioned into the three
// outcome buckets under a rank cutoff k.
type Classification struct {
	TruePositives  []Hit
	FalsePositives []Hit
	FalseNegatives []Hit
}

// EffectiveSize raises the requested search size to the cutoff so the
// ranking window is always fully populated.
func EffectiveSize(size, k int) int {
	if size < k {
		return k
	}
	return size
}

// Classify partitions one query's ranked hits against its relevance set.
//
// A hit at 1-based rank pos is a true positive when its document is
// relevant and pos <= k. An irrelevant hit is a false positive only when
// pos < k; the strict comparison at exactly rank k is kept for parity
// with historical reports. False negatives are relevant documents ranked
// beyond k (kept with their real position and score) or never returned
// at all (sentinel position, nil score), the sentinel group first.
func Classify(query dataset.Query, ranked []backend.SearchHit, fields []string, k int) Classification {
	var c Classification

	for i, h := range ranked {
		pos := i + 1
		relevant := query.Relevant.Contains(h.ID)
		switch {
		case relevant && pos <= k:
			c.TruePositives = append(c.TruePositives, newHit(pos, h, fields))
		case !relevant && pos < k:
			c.FalsePositives = append(c.FalsePositives, newHit(pos, h, fields))
		}
	}

	c.FalseNegatives = falseNegatives(query, ranked, fields, k)
	return c
}

// falseNegatives consumes a working copy of the relevance set: every
// relevant id is accounted for exactly once, at its first occurrence in
// ranked order, or as a never-seen sentinel.
func falseNegatives(query dataset.Query, ranked []backend.SearchHit, fields []string, k int) []Hit {
	working := query.Relevant.Copy()

	var found []Hit
	for i, h := range ranked {
		pos := i + 1
		if !working.Contains(h.ID) {
			continue
		}
		if pos > k {
			found = append(found, newHit(pos, h, fields))
		}
		delete(working, h.ID)
	}

	missing := make([]int, 0, len(working))
	for id := range working {
		missing = append(missing, id)
	}
	sort.Ints(missing)

	fn := make([]Hit, 0, len(missing)+len(found))
	for _, id := range missing {
		fn = append(fn, Hit{Position: SentinelPosition, Doc: Doc{ID: id}})
	}
	return append(fn, found...)
}

// newHit builds the structured hit record, keeping only the requested
// fields that the backend actually returned. Highlights follow their
// field: a field absent from the source is omitted entirely.
func newHit(pos int, h backend.SearchHit, fields []string) Hit {
	hit := Hit{
		Position: pos,
		Score:    h.Score,
		Doc:      Doc{ID: h.ID},
	}

	for _, field := range fields {
		val, ok := h.Source[field]
		if !ok {
			continue
		}
		if hit.Doc.Fields == nil {
			hit.Doc.Fields = make(map[string]any)
		}
		hit.Doc.Fields[field] = val

		if spans, ok := h.Highlight[field]; ok {
			if hit.Highlight == nil {
				hit.Highlight = make(map[string][]string)
			}
			hit.Highlight[field] = spans
		}
	}
	return hit
}
