// Package search narrows a collection by a free-text query.
package search

import "strings"

// Filter returns the items for which any string produced by fields contains
// query, ignoring case. An empty query returns items itself, untouched.
// Filter never mutates items; a non-empty query always yields a new slice.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matches(fields(it), q) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether any of values contains query, ignoring case.
func Matches(values []string, query string) bool {
	if query == "" {
		return true
	}
	return matches(values, strings.ToLower(query))
}

func matches(values []string, lowered string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}
