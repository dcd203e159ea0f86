// Package strings holds small list helpers for cookie and header values.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings, trimming each element.
// Order of first occurrence is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}

// SplitList splits a separator joined value such as "index,carta,blog"
// and returns its distinct non-empty elements.
func SplitList(raw, sep string) []string {
	if raw == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(raw, sep))
}

// AppendUnique appends v unless it is already present.
func AppendUnique(values []string, v string) ([]string, bool) {
	for _, existing := range values {
		if existing == v {
			return values, false
		}
	}
	return append(values, v), true
}
