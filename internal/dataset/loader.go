package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type datasetFile struct {
	Queries []queryEntry `yaml:"queries"`
}

type queryEntry struct {
	ID       int    `yaml:"id"`
	Question string `yaml:"question"`
	Relevant []int  `yaml:"relevant"`
}

func LoadFromFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset YAML: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, err
	}

	queries := make([]Query, 0, len(f.Queries))
	for _, e := range f.Queries {
		queries = append(queries, Query{
			ID:       e.ID,
			Question: e.Question,
			Relevant: NewRelevanceSet(e.Relevant...),
		})
	}
	return New(queries)
}

func validate(f *datasetFile) error {
	if len(f.Queries) == 0 {
		return fmt.Errorf("dataset has no queries")
	}
	for i, q := range f.Queries {
		if q.Question == "" {
			return fmt.Errorf("query at index %d has no question", i)
		}
	}
	return nil
}
