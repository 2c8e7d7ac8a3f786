package domain

import "strings"

// MatchNumber reports whether fragment identifies number under the fuzzy
// matching policy: case-insensitive substring OR suffix. Empty fragments
// match nothing.
func MatchNumber(number, fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return false
	}
	n := strings.ToLower(number)
	f := strings.ToLower(fragment)
	return strings.Contains(n, f) || strings.HasSuffix(n, f)
}
