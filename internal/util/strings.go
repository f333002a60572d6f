// Package util holds small formatting helpers for operator output.
package util

import (
	"fmt"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices,
// so an empty variables file still prints a visible key list.
func JoinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count formats a count with its noun: "1 attempt", "3 attempts".
func Count(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, singular, plural))
}
