package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const falsePositivesName = "false_positives"

// DistributionInput is one query's raw counts for a bucket kind.
type DistributionInput struct {
	Query         string
	Count         int
	RelevantCount int
}

// DistributionEntry is one query's counted distribution.
type DistributionEntry struct {
	Query        string
	Count        int
	Percentage   float64
	RelevantDocs int
}

// Distribution holds per-query counts sorted ascending by percentage,
// with the summed aggregate presented last.
type Distribution struct {
	Name            string
	Entries         []DistributionEntry
	TotalSum        int
	TotalPercentage float64
}

// CountDistribution counts a bucket per query and derives percentages
// against each query's relevant-document count.
//
// For the false-positive bucket the percentage expresses the fraction of
// the cutoff window not consumed by noise: with f = k - count, it is
// (relevant - f) * 100 / relevant, zeroed when f equals the relevant
// count or no relevant documents exist. Negative values are valid
// output. All other buckets use plain count / relevant percentages. The
// total applies the same formula to the summed counts, not an average of
// the per-query percentages.
func CountDistribution(name string, inputs []DistributionInput, k int) *Distribution {
	d := &Distribution{Name: name}

	var sumCount, sumRels int
	for _, in := range inputs {
		var percentage float64
		if name == falsePositivesName {
			percentage = falsePositivePercentage(in.Count, in.RelevantCount, k)
		} else if in.RelevantCount != 0 {
			percentage = 100 * float64(in.Count) / float64(in.RelevantCount)
		}
		d.Entries = append(d.Entries, DistributionEntry{
			Query:        in.Query,
			Count:        in.Count,
			Percentage:   percentage,
			RelevantDocs: in.RelevantCount,
		})
		sumCount += in.Count
		sumRels += in.RelevantCount
	}

	sort.SliceStable(d.Entries, func(i, j int) bool {
		return d.Entries[i].Percentage < d.Entries[j].Percentage
	})

	d.TotalSum = sumCount
	if name == falsePositivesName {
		d.TotalPercentage = aggregateFalsePositivePercentage(sumCount, sumRels, k, len(inputs))
	} else if sumRels != 0 {
		d.TotalPercentage = 100 * float64(sumCount) / float64(sumRels)
	}
	return d
}

func falsePositivePercentage(count, relevant, k int) float64 {
	f := k - count
	if f == relevant || relevant == 0 {
		return 0
	}
	return float64(relevant-f) * 100 / float64(relevant)
}

// aggregateFalsePositivePercentage widens the cutoff window to k slots
// per counted query before applying the same inversion.
func aggregateFalsePositivePercentage(sumCount, sumRels, k, queries int) float64 {
	f := k*queries - sumCount
	if f == sumRels || sumRels == 0 {
		return 0
	}
	return float64(sumRels-f) * 100 / float64(sumRels)
}

// Get returns the entry for a query key.
func (d *Distribution) Get(query string) (DistributionEntry, bool) {
	for _, e := range d.Entries {
		if e.Query == query {
			return e, true
		}
	}
	return DistributionEntry{}, false
}

// MarshalJSON renders the interchange form, the trailing total carrying
// the summed count and the aggregate percentage as a "<value>%" string.
func (d *Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, e := range d.Entries {
		key, err := json.Marshal(e.Query)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		val, err := json.Marshal(map[string]any{
			"count":              e.Count,
			"percentage":         e.Percentage,
			"relevant documents": e.RelevantDocs,
		})
		if err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(val)
		buf.WriteByte(',')
	}
	total, err := json.Marshal(map[string]any{
		"total sum":  d.TotalSum,
		"percentage": fmt.Sprintf("%v%%", d.TotalPercentage),
	})
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"total":`)
	buf.Write(total)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
