// Package runspec loads multi-run evaluation specs from YAML, the
// file-driven alternative to spelling every run out in CLI flags.
package runspec

type EvalSpec struct {
	Dataset string        `yaml:"dataset"`
	Backend BackendConfig `yaml:"backend"`
	Runs    []RunSpec     `yaml:"runs"`
}

type BackendConfig struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
}

type RunSpec struct {
	Name   string   `yaml:"name"`
	Index  string   `yaml:"index"`
	Fields []string `yaml:"fields,omitempty"`
	Size   int      `yaml:"size,omitempty"`
	K      int      `yaml:"k,omitempty"`
}
