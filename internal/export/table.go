package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/relevancelab/searcheval/internal/comparison"
	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/metrics"
)

// WriteMetricTable renders one metric result, ascending by value with
// the total last.
func WriteMetricTable(r *metrics.Result, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n--- %s ---\n\n", r.Name)
	writeHeader(tw, []string{"Query", string(r.Name)})
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%s\t%.4f\n", e.Query, e.Value)
	}
	fmt.Fprintf(tw, "total\t%.4f\n\n", r.Total)

	tw.Flush()
}

// WriteDistributionTable renders one counted distribution.
func WriteDistributionTable(d *metrics.Distribution, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n--- %s distribution ---\n\n", d.Name)
	writeHeader(tw, []string{"Query", "Count", "Percentage", "Relevant"})
	for _, e := range d.Entries {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%d\n", e.Query, e.Count, e.Percentage, e.RelevantDocs)
	}
	fmt.Fprintf(tw, "total\t%d\t%.2f%%\t\n\n", d.TotalSum, d.TotalPercentage)

	tw.Flush()
}

// WriteDiffTable renders a per-query metric comparison, ascending by
// absolute difference.
func WriteDiffTable(d *comparison.Diff, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n--- %s: %s vs %s ---\n\n", d.Metric, d.NameA, d.NameB)
	writeHeader(tw, []string{"Query", d.NameA, d.NameB, "diff"})
	for _, e := range d.Entries {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n", e.Query, e.A, e.B, e.Diff)
	}
	e := d.Total
	fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\n\n", e.Query, e.A, e.B, e.Diff)

	tw.Flush()
}

// WriteDisjointTable summarizes disjoint result sets per query.
func WriteDisjointTable(r *comparison.DisjointResult, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n--- disjoint %s: %s vs %s ---\n\n", r.Kind, r.NameA, r.NameB)
	writeHeader(tw, []string{"Query", "Only " + r.NameA, "Only " + r.NameB, "Count"})
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.Query, docIDs(e.OnlyA), docIDs(e.OnlyB), e.Count)
	}
	fmt.Fprintln(tw)

	tw.Flush()
}

func writeHeader(tw *tabwriter.Writer, header []string) {
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))
}

func docIDs(hits []evaluation.Hit) string {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, fmt.Sprintf("%d", h.Doc.ID))
	}
	return strings.Join(ids, ",")
}
