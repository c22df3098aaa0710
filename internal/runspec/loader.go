package runspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadFromFile(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*EvalSpec, error) {
	var s EvalSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *EvalSpec) error {
	if s.Dataset == "" {
		return fmt.Errorf("spec has no dataset")
	}
	if len(s.Backend.Addresses) == 0 {
		return fmt.Errorf("spec has no backend addresses")
	}
	if len(s.Runs) == 0 {
		return fmt.Errorf("spec has no runs")
	}
	seen := make(map[string]struct{}, len(s.Runs))
	for i, r := range s.Runs {
		if r.Name == "" {
			return fmt.Errorf("run at index %d has no name", i)
		}
		if r.Index == "" {
			return fmt.Errorf("run %q has no index", r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate run name %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}
