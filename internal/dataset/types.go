package dataset

import "fmt"

// RelevanceSet holds the document ids judged relevant for one query.
type RelevanceSet map[int]struct{}

func NewRelevanceSet(ids ...int) RelevanceSet {
	rs := make(RelevanceSet, len(ids))
	for _, id := range ids {
		rs[id] = struct{}{}
	}
	return rs
}

func (rs RelevanceSet) Contains(id int) bool {
	_, ok := rs[id]
	return ok
}

func (rs RelevanceSet) Len() int { return len(rs) }

// Copy returns a mutable working copy. Classification consumes the copy
// while the original set stays untouched for the lifetime of a run.
func (rs RelevanceSet) Copy() RelevanceSet {
	cp := make(RelevanceSet, len(rs))
	for id := range rs {
		cp[id] = struct{}{}
	}
	return cp
}

// Query is one evaluation query with its ground-truth relevance set.
type Query struct {
	ID       int
	Question string
	Relevant RelevanceSet
}

// Key returns the presentation key used in reports and interchange output.
func (q Query) Key() string { return fmt.Sprintf("Query_%d", q.ID) }

// Dataset is the evaluation query collection. Query ids are unique,
// iteration order follows file order.
type Dataset struct {
	queries []Query
	byID    map[int]*Query
}

func New(queries []Query) (*Dataset, error) {
	ds := &Dataset{
		queries: queries,
		byID:    make(map[int]*Query, len(queries)),
	}
	for i := range queries {
		q := &ds.queries[i]
		if _, exists := ds.byID[q.ID]; exists {
			return nil, fmt.Errorf("duplicate query id %d", q.ID)
		}
		ds.byID[q.ID] = q
	}
	return ds, nil
}

func (ds *Dataset) Queries() []Query { return ds.queries }

func (ds *Dataset) Len() int { return len(ds.queries) }

func (ds *Dataset) Get(id int) (Query, bool) {
	q, ok := ds.byID[id]
	if !ok {
		return Query{}, false
	}
	return *q, true
}

// Select narrows the dataset to the given query ids. A nil or empty
// selection keeps every query.
func (ds *Dataset) Select(ids []int) ([]Query, error) {
	if len(ids) == 0 {
		return ds.queries, nil
	}
	selected := make([]Query, 0, len(ids))
	for _, id := range ids {
		q, ok := ds.Get(id)
		if !ok {
			return nil, fmt.Errorf("unknown query id %d", id)
		}
		selected = append(selected, q)
	}
	return selected, nil
}
