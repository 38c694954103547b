package catalog

import (
	"regexp"
	"strings"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9]+`)
	underscorePattern = regexp.MustCompile(`_+`)
)

// NormalizeTag maps a tag to its canonical form: lowercase, runs of
// non-alphanumeric characters collapsed to a single underscore, edges
// stripped. Two tags are considered equal iff their normalized forms match.
func NormalizeTag(tag string) string {
	s := strings.ToLower(strings.TrimSpace(tag))
	s = nonAlnumPattern.ReplaceAllString(s, "_")
	s = underscorePattern.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeTags normalizes a tag list, dropping entries that normalize to
// the empty string and deduplicating while preserving order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// HasAllTags reports whether every requested tag is present in the product's
// tags, compared by normalized form (AND semantics).
func HasAllTags(productTags, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	have := make(map[string]bool, len(productTags))
	for _, t := range productTags {
		if n := NormalizeTag(t); n != "" {
			have[n] = true
		}
	}
	for _, r := range requested {
		n := NormalizeTag(r)
		if n == "" {
			continue
		}
		if !have[n] {
			return false
		}
	}
	return true
}
