package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/relevancelab/searcheval/internal/backend"
	"github.com/relevancelab/searcheval/internal/comparison"
	"github.com/relevancelab/searcheval/internal/dataset"
	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/explain"
	"github.com/relevancelab/searcheval/internal/export"
	"github.com/relevancelab/searcheval/internal/runspec"
)

func main() {
	cfg := parseFlags()
	ctx := context.Background()

	switch cfg.Mode {
	case "eval":
		runEval(ctx, cfg)
	case "compare":
		runCompare(ctx, cfg)
	case "explain":
		runExplain(ctx, cfg)
	default:
		slog.Error("Unknown mode", "mode", cfg.Mode)
		os.Exit(1)
	}
}

// setup resolves the backend client, the dataset and the run configs
// either from a spec file or from the individual flags.
func setup(cfg cliConfig) (*backend.ESClient, *dataset.Dataset, []evaluation.RunConfig) {
	datasetPath := cfg.DatasetPath
	esCfg := backend.ESConfig{
		Addresses: cfg.parseAddresses(),
		Username:  cfg.EsUser,
		Password:  cfg.EsPassword,
	}

	var runCfgs []evaluation.RunConfig
	if cfg.SpecPath != "" {
		spec, err := runspec.LoadFromFile(cfg.SpecPath)
		if err != nil {
			slog.Error("Failed to load evaluation spec", "path", cfg.SpecPath, "error", err)
			os.Exit(1)
		}
		datasetPath = spec.Dataset
		esCfg = backend.ESConfig{
			Addresses: spec.Backend.Addresses,
			Username:  spec.Backend.Username,
			Password:  spec.Backend.Password,
		}
		for _, r := range spec.Runs {
			runCfgs = append(runCfgs, evaluation.RunConfig{
				Name:   r.Name,
				Index:  r.Index,
				Fields: r.Fields,
				Size:   r.Size,
				K:      r.K,
			})
		}
	} else {
		runCfgs = flagRunConfigs(cfg)
	}

	ds, err := dataset.LoadFromFile(datasetPath)
	if err != nil {
		slog.Error("Failed to load dataset", "path", datasetPath, "error", err)
		os.Exit(1)
	}

	client, err := backend.NewESClient(esCfg)
	if err != nil {
		slog.Error("Failed to create search client", "error", err)
		os.Exit(1)
	}

	return client, ds, runCfgs
}

func flagRunConfigs(cfg cliConfig) []evaluation.RunConfig {
	queryIDs, err := cfg.parseQueryIDs()
	if err != nil {
		slog.Error("Invalid query ids", "error", err)
		os.Exit(1)
	}

	runCfgs := []evaluation.RunConfig{{
		Name:     cfg.Name,
		Index:    cfg.Index,
		Fields:   cfg.parseFields(),
		Size:     cfg.Size,
		K:        cfg.K,
		QueryIDs: queryIDs,
	}}
	if cfg.IndexB != "" {
		runCfgs = append(runCfgs, evaluation.RunConfig{
			Name:     cfg.NameB,
			Index:    cfg.IndexB,
			Fields:   cfg.parseFields(),
			Size:     cfg.Size,
			K:        cfg.K,
			QueryIDs: queryIDs,
		})
	}
	return runCfgs
}

func newRun(ctx context.Context, client backend.SearchClient, ds *dataset.Dataset, rc evaluation.RunConfig) *evaluation.Run {
	run, err := evaluation.NewRun(ctx, client, ds, rc)
	if err != nil {
		slog.Error("Failed to create evaluation run", "name", rc.Name, "error", err)
		os.Exit(1)
	}
	return run
}

func runEval(ctx context.Context, cfg cliConfig) {
	kind, err := cfg.metricKind()
	if err != nil {
		slog.Error("Invalid metric", "error", err)
		os.Exit(1)
	}
	bucket, err := cfg.bucketKind()
	if err != nil {
		slog.Error("Invalid bucket", "error", err)
		os.Exit(1)
	}

	client, ds, runCfgs := setup(cfg)
	if cfg.SpecPath == "" && cfg.Index == "" {
		slog.Error("Eval mode requires -index or -spec")
		os.Exit(1)
	}

	for _, rc := range runCfgs {
		run := newRun(ctx, client, ds, rc)

		result, err := run.Metric(ctx, kind, cfg.Beta)
		if err != nil {
			slog.Error("Evaluation failed", "run", rc.Name, "error", err)
			os.Exit(1)
		}
		export.WriteMetricTable(result, os.Stdout)

		dist, err := run.CountDistribution(ctx, bucket)
		if err != nil {
			slog.Error("Distribution failed", "run", rc.Name, "error", err)
			os.Exit(1)
		}
		export.WriteDistributionTable(dist, os.Stdout)

		if cfg.Output != "" {
			writeOutput(outputPath(cfg.Output, rc.Name, len(runCfgs) > 1), map[string]any{
				string(kind):   result,
				"distribution": dist,
			})
		}
	}
}

// outputPath suffixes the run name when several runs share one -output
// flag so they do not overwrite each other.
func outputPath(path, name string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + name + ext
}

func runCompare(ctx context.Context, cfg cliConfig) {
	kind, err := cfg.metricKind()
	if err != nil {
		slog.Error("Invalid metric", "error", err)
		os.Exit(1)
	}
	bucket, err := cfg.bucketKind()
	if err != nil {
		slog.Error("Invalid bucket", "error", err)
		os.Exit(1)
	}

	client, ds, runCfgs := setup(cfg)
	if len(runCfgs) < 2 {
		slog.Error("Compare mode needs two runs: pass -index and -index-b, or a -spec with two runs")
		os.Exit(1)
	}

	runA := newRun(ctx, client, ds, runCfgs[0])
	runB := newRun(ctx, client, ds, runCfgs[1])

	cmp := comparison.New(runA, runB)
	cmp.Beta = cfg.Beta

	diff, err := cmp.CalculateDifference(ctx, kind)
	if err != nil {
		slog.Error("Comparison failed", "error", err)
		os.Exit(1)
	}
	export.WriteDiffTable(diff, os.Stdout)

	disjoint, err := cmp.GetDisjointSets(ctx, bucket, cfg.Highest)
	if err != nil {
		slog.Error("Disjoint set computation failed", "error", err)
		os.Exit(1)
	}
	export.WriteDisjointTable(disjoint, os.Stdout)

	if cfg.Output != "" {
		writeOutput(cfg.Output, diff)
	}

	if cfg.QueryID > 0 && cfg.DocID > 0 {
		compareDocument(ctx, cfg, cmp)
	}
}

func compareDocument(ctx context.Context, cfg cliConfig, cmp *comparison.Comparison) {
	specific, err := cmp.GetSpecificComparison(ctx, cfg.QueryID, cfg.DocID)
	if err != nil {
		slog.Error("Specific comparison failed", "query", cfg.QueryID, "doc", cfg.DocID, "error", err)
		os.Exit(1)
	}
	printJSON(specific)

	if cfg.CSVOutput == "" {
		return
	}

	terms, err := cmp.GetTermScores(ctx, cfg.QueryID, cfg.DocID)
	if err != nil {
		slog.Error("Term score comparison failed", "query", cfg.QueryID, "doc", cfg.DocID, "error", err)
		os.Exit(1)
	}
	if err := export.WriteTermCSVFile(terms, cfg.CSVOutput, cfg.DecimalSep); err != nil {
		slog.Error("Failed to write term score CSV", "path", cfg.CSVOutput, "error", err)
		os.Exit(1)
	}
	slog.Info("Term score CSV written", "path", cfg.CSVOutput)
}

func runExplain(ctx context.Context, cfg cliConfig) {
	if cfg.Index == "" {
		slog.Error("Explain mode requires -index")
		os.Exit(1)
	}
	if cfg.QueryID <= 0 || cfg.DocID <= 0 {
		slog.Error("Explain mode requires -query and -doc")
		os.Exit(1)
	}

	client, ds, _ := setup(cfg)
	q, ok := ds.Get(cfg.QueryID)
	if !ok {
		slog.Error("Unknown query id", "query", cfg.QueryID)
		os.Exit(1)
	}

	fields := cfg.parseFields()
	if len(fields) == 0 {
		fields = evaluation.DefaultFields
	}

	breakdown, err := explain.Query(ctx, client, cfg.Index, cfg.DocID, q.Question, fields)
	if err != nil {
		slog.Error("Explain failed", "query", cfg.QueryID, "doc", cfg.DocID, "error", err)
		os.Exit(1)
	}
	printJSON(breakdown)

	if cfg.Output != "" {
		writeOutput(cfg.Output, breakdown)
	}
}

func printJSON(v any) {
	out, err := export.Dumps(v)
	if err != nil {
		slog.Error("Failed to render result", "error", err)
		os.Exit(1)
	}
	os.Stdout.WriteString(out + "\n")
}

func writeOutput(path string, v any) {
	if err := export.WriteJSON(v, path); err != nil {
		slog.Error("Failed to write JSON output", "path", path, "error", err)
		os.Exit(1)
	}
	slog.Info("Results written", "path", path)
}
