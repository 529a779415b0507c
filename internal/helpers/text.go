// Package helpers holds small text utilities shared by the parser and
// generator that don't belong to either's own concern.
package helpers

import "strings"

// JoinTextParts joins the literals of a `text { ... }` block the way the
// author wrote them: space-separated, matching how adjacent string literals
// read as one sentence in the source.
func JoinTextParts(parts []string) string {
	return strings.Join(parts, " ")
}
