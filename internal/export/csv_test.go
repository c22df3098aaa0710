package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/relevancelab/searcheval/internal/comparison"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termScores() *comparison.TermScores {
	return &comparison.TermScores{
		NameA: "base",
		NameB: "cand",
		Terms: []string{"title: alpha", "title: beta"},
		Scores: map[string][]float64{
			"base": {2.5, 0},
			"cand": {0, 1},
		},
	}
}

func TestWriteTermCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTermCSV(termScores(), &buf, ""))

	want := "base;base2;cand;cand2\n" +
		"searched terms;term score;searched terms;term score\n" +
		"title: alpha;2,5;title: alpha;0\n" +
		"title: beta;0;title: beta;1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTermCSVCustomSeparator(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTermCSV(termScores(), &buf, "."))

	assert.Contains(t, buf.String(), "title: alpha;2.5;")
}

func TestWriteTermCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.csv")
	require.NoError(t, WriteTermCSVFile(termScores(), path, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base;base2;cand;cand2")
}
