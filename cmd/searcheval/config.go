package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/metrics"
)

type cliConfig struct {
	Mode        string
	SpecPath    string
	DatasetPath string
	EsAddresses string
	EsUser      string
	EsPassword  string
	Index       string
	IndexB      string
	Name        string
	NameB       string
	Fields      string
	Size        int
	K           int
	Beta        float64
	Metric      string
	Bucket      string
	QueryIDs    string
	QueryID     int
	DocID       int
	Highest     bool
	Output      string
	CSVOutput   string
	DecimalSep  string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.Mode, "mode", "eval", "Run mode: eval, compare, or explain")
	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to evaluation spec YAML (overrides backend and run flags)")
	flag.StringVar(&cfg.DatasetPath, "dataset", "configs/datasets/example.yaml", "Path to query dataset YAML")
	flag.StringVar(&cfg.EsAddresses, "es-addresses", "http://localhost:9200", "Elasticsearch addresses, comma-separated")
	flag.StringVar(&cfg.EsUser, "es-user", "", "Elasticsearch username")
	flag.StringVar(&cfg.EsPassword, "es-password", "", "Elasticsearch password")
	flag.StringVar(&cfg.Index, "index", "", "Index to evaluate")
	flag.StringVar(&cfg.IndexB, "index-b", "", "Second index (compare mode)")
	flag.StringVar(&cfg.Name, "name", "baseline", "Approach name for the first run")
	flag.StringVar(&cfg.NameB, "name-b", "candidate", "Approach name for the second run (compare mode)")
	flag.StringVar(&cfg.Fields, "fields", "", "Fields to search, comma-separated (default text,title)")
	flag.IntVar(&cfg.Size, "size", evaluation.DefaultSize, "Number of results to retrieve per query")
	flag.IntVar(&cfg.K, "k", evaluation.DefaultK, "Rank cutoff for classification")
	flag.Float64Var(&cfg.Beta, "beta", 1, "F-score beta weight")
	flag.StringVar(&cfg.Metric, "metric", "fscore", "Metric to report: recall, precision, or fscore")
	flag.StringVar(&cfg.Bucket, "bucket", "false_positives", "Bucket for distributions and disjoint sets: true_positives, false_positives, or false_negatives")
	flag.StringVar(&cfg.QueryIDs, "queries", "", "Query ids to evaluate, comma-separated (default all)")
	flag.IntVar(&cfg.QueryID, "query", 0, "Query id (explain mode and term scores)")
	flag.IntVar(&cfg.DocID, "doc", 0, "Document id (explain mode and term scores)")
	flag.BoolVar(&cfg.Highest, "highest", false, "Keep only the query with the largest disjoint set")
	flag.StringVar(&cfg.Output, "output", "", "Output path for JSON results")
	flag.StringVar(&cfg.CSVOutput, "csv", "", "Output path for term score CSV (compare mode with -query and -doc)")
	flag.StringVar(&cfg.DecimalSep, "decimal-sep", "", "Decimal separator for CSV output (default \",\")")

	flag.Parse()
	return cfg
}

func (c cliConfig) parseAddresses() []string {
	parts := strings.Split(c.EsAddresses, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			addrs = append(addrs, p)
		}
	}
	return addrs
}

func (c cliConfig) parseFields() []string {
	if c.Fields == "" {
		return nil
	}
	parts := strings.Split(c.Fields, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

func (c cliConfig) parseQueryIDs() ([]int, error) {
	if c.QueryIDs == "" {
		return nil, nil
	}
	parts := strings.Split(c.QueryIDs, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid query id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c cliConfig) metricKind() (metrics.Kind, error) {
	switch c.Metric {
	case "recall":
		return metrics.KindRecall, nil
	case "precision":
		return metrics.KindPrecision, nil
	case "fscore":
		return metrics.KindFScore, nil
	}
	return "", fmt.Errorf("unknown metric %q", c.Metric)
}

func (c cliConfig) bucketKind() (evaluation.BucketKind, error) {
	switch c.Bucket {
	case string(evaluation.TruePositives):
		return evaluation.TruePositives, nil
	case string(evaluation.FalsePositives):
		return evaluation.FalsePositives, nil
	case string(evaluation.FalseNegatives):
		return evaluation.FalseNegatives, nil
	}
	return "", fmt.Errorf("unknown bucket %q", c.Bucket)
}
