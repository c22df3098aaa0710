package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BucketKind names one of the three classification outcome collections.
type BucketKind string

const (
	TruePositives  BucketKind = "true_positives"
	FalsePositives BucketKind = "false_positives"
	FalseNegatives BucketKind = "false_negatives"
)

// SentinelPosition marks a relevant document the backend never returned.
const SentinelPosition = -1

// Doc carries a hit's document id plus the field contents the backend
// returned for the requested fields.
type Doc struct {
	ID     int
	Fields map[string]any
}

func (d Doc) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(d.Fields)+1)
	obj["id"] = d.ID
	for name, val := range d.Fields {
		obj[name] = val
	}
	return json.Marshal(obj)
}

func (d *Doc) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	rawID, ok := obj["id"]
	if !ok {
		return fmt.Errorf("doc record has no id")
	}
	idNum, ok := rawID.(float64)
	if !ok {
		return fmt.Errorf("doc id %v is not a number", rawID)
	}
	delete(obj, "id")
	d.ID = int(idNum)
	if len(obj) > 0 {
		d.Fields = obj
	}
	return nil
}

// Hit is one classified search result. Position is 1-based;
// SentinelPosition with a nil score marks a never-retrieved document.
type Hit struct {
	Position  int                 `json:"position"`
	Score     *float64            `json:"score"`
	Doc       Doc                 `json:"doc"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// QueryBucket holds one query's classified hits for a single bucket kind.
// Document ids are unique within Hits.
type QueryBucket struct {
	QueryID  int
	Question string
	Hits     []Hit
}

// Bucket is one classification distribution across all evaluated queries,
// in evaluation order.
type Bucket struct {
	Kind    BucketKind
	Entries []QueryBucket
}

func (b *Bucket) Get(queryID int) (*QueryBucket, bool) {
	for i := range b.Entries {
		if b.Entries[i].QueryID == queryID {
			return &b.Entries[i], true
		}
	}
	return nil, false
}

// MarshalJSON renders the interchange form: an object keyed by
// "Query_<id>" in evaluation order, each value holding the question and
// the hit list under the bucket's kind name.
func (b *Bucket) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprintf("Query_%d", e.QueryID))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(map[string]any{
			"question":     e.Question,
			string(b.Kind): e.Hits,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseBucket reads a bucket back from its interchange JSON form.
// Entries are ordered by query id since JSON objects carry no order.
func ParseBucket(data []byte, kind BucketKind) (*Bucket, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s interchange: %w", kind, err)
	}

	b := &Bucket{Kind: kind}
	for key, entry := range raw {
		id, err := strconv.Atoi(strings.TrimPrefix(key, "Query_"))
		if err != nil {
			return nil, fmt.Errorf("parse query key %q: %w", key, err)
		}

		qb := QueryBucket{QueryID: id}
		if q, ok := entry["question"]; ok {
			if err := json.Unmarshal(q, &qb.Question); err != nil {
				return nil, fmt.Errorf("parse question for %q: %w", key, err)
			}
		}
		hits, ok := entry[string(kind)]
		if !ok {
			return nil, fmt.Errorf("entry %q has no %s list", key, kind)
		}
		if err := json.Unmarshal(hits, &qb.Hits); err != nil {
			return nil, fmt.Errorf("parse hits for %q: %w", key, err)
		}
		b.Entries = append(b.Entries, qb)
	}

	sort.Slice(b.Entries, func(i, j int) bool { return b.Entries[i].QueryID < b.Entries[j].QueryID })
	return b, nil
}
