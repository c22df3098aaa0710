// Package export renders evaluation and comparison records for callers:
// indented interchange JSON, the two-column-per-approach term CSV and
// terminal tables.
package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPalette is the report color palette handed to rendering
// collaborators: orange, green, turquoise, black, red, yellow, white.
var DefaultPalette = []string{
	"#ffb900",
	"#8cab13",
	"#22ab82",
	"#242526",
	"#cc0000",
	"#ffcc00",
	"#ffffff",
}

// Dumps renders any interchange record as indented JSON.
func Dumps(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(data), nil
}

// WriteJSON writes an interchange record to a file.
func WriteJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
