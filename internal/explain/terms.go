package explain

import (
	"regexp"
	"strings"
)

// Scoring function descriptions carry the matched terms as
// colon-prefixed tokens, e.g. `weight(title:Städte in ...)`.
var termPattern = regexp.MustCompile(`:[\p{L}]*\s`)

// ExtractTerms scans a scoring function description for colon-prefixed
// tokens and joins them with ", ".
func ExtractTerms(description string) string {
	matches := termPattern.FindAllString(description, -1)
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		terms = append(terms, strings.TrimSpace(strings.TrimPrefix(m, ":")))
	}
	return strings.Join(terms, ", ")
}
