package aggregate

import "strings"

// Decompose splits query into words on runs of Unicode whitespace.
// It never returns nil; a blank query yields an empty slice.
func Decompose(query string) []string {
	words := strings.Fields(query)
	if words == nil {
		return []string{}
	}
	return words
}
