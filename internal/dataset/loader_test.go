package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	data := []byte(`
queries:
  - id: 1
    question: "How do I reset my password?"
    relevant: [101, 104]
  - id: 2
    question: "Where is my invoice?"
    relevant: [203]
`)

	ds, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	q, ok := ds.Get(1)
	require.True(t, ok)
	assert.Equal(t, "How do I reset my password?", q.Question)
	assert.True(t, q.Relevant.Contains(101))
	assert.True(t, q.Relevant.Contains(104))
	assert.False(t, q.Relevant.Contains(203))
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "empty dataset",
			data:    `queries: []`,
			wantErr: "dataset has no queries",
		},
		{
			name: "missing question",
			data: `
queries:
  - id: 1
    relevant: [5]
`,
			wantErr: "query at index 0 has no question",
		},
		{
			name: "duplicate ids",
			data: `
queries:
  - id: 1
    question: "a"
    relevant: [5]
  - id: 1
    question: "b"
    relevant: [6]
`,
			wantErr: "duplicate query id 1",
		},
		{
			name:    "malformed yaml",
			data:    `queries: [`,
			wantErr: "parse dataset YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
