package util

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	handle     = regexp.MustCompile(`@(\w+)`)
)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// NormalizeHandle trims whitespace and one leading @ from a user-typed handle.
func NormalizeHandle(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "@"))
}

// SameHandle compares two handles case-insensitively.
func SameHandle(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ExtractHandles returns every @handle token in text, without the @.
func ExtractHandles(text string) []string {
	var out []string
	for _, m := range handle.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// Dedupe drops repeated strings, keeping first-seen order.
func Dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
