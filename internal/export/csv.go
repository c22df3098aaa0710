package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/relevancelab/searcheval/internal/comparison"
)

// DefaultDecimalSeparator follows the spreadsheet locale the reports
// were built for; pass "." for English tooling.
const DefaultDecimalSeparator = ","

// WriteTermCSV renders reconciled term scores as a two-column-per-
// approach table: a header row of column names, a label row of
// "searched terms" / "term score", then one row per term. Terms missing
// from one run were already padded with score 0.
func WriteTermCSV(ts *comparison.TermScores, w io.Writer, decimalSeparator string) error {
	if decimalSeparator == "" {
		decimalSeparator = DefaultDecimalSeparator
	}

	columns := make(map[string][]string, 4)
	for name, scores := range ts.Scores {
		terms := make([]string, 0, len(ts.Terms)+1)
		terms = append(terms, "searched terms")
		terms = append(terms, ts.Terms...)

		values := make([]string, 0, len(scores)+1)
		values = append(values, "term score")
		for _, s := range scores {
			formatted := strconv.FormatFloat(s, 'f', -1, 64)
			values = append(values, strings.ReplaceAll(formatted, ".", decimalSeparator))
		}

		columns[name] = terms
		columns[name+"2"] = values
	}

	keys := make([]string, 0, len(columns))
	for key := range columns {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(keys); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for row := 0; row <= len(ts.Terms); row++ {
		record := make([]string, len(keys))
		for i, key := range keys {
			record[i] = columns[key][row]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTermCSVFile writes the term score table to a file.
func WriteTermCSVFile(ts *comparison.TermScores, path, decimalSeparator string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteTermCSV(ts, f, decimalSeparator); err != nil {
		return err
	}
	return f.Close()
}
