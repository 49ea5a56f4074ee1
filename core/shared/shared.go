package shared

import "strings"

// ToTitle upper-cases the first character of a name, e.g. "textMap" becomes
// "TextMap". Used to synthesize type names for group fields.
func ToTitle(s string) string {
	if s == "" {
		return s
	}
	first := strings.ToUpper(s[:1])
	rest := s[1:]
	return first + rest
}
