// Package util provides small string helpers shared across the viewer.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// NormalizeLabel cleans a marker label arriving from external input, such
// as a shared navigation link: surrounding whitespace and stray quotes
// from copy-paste are stripped.
func NormalizeLabel(s string) string {
	return TrimQuotes(strings.TrimSpace(s))
}
