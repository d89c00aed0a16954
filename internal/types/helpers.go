package types

import "strings"

// IsBlank reports whether s is empty once surrounding whitespace is removed
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
