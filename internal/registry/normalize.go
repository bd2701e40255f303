package registry

import (
	"regexp"
	"strings"
)

var (
	punctPattern      = regexp.MustCompile(`[,.\-_/]`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Street-type abbreviations expand on word boundaries only, so the
	// "st" in "easter" is never touched. Replacements are full words,
	// which keeps the whole pipeline idempotent.
	streetTypePatterns = []struct {
		pattern *regexp.Regexp
		full    string
	}{
		{regexp.MustCompile(`\bst\b`), "street"},
		{regexp.MustCompile(`\brd\b`), "road"},
		{regexp.MustCompile(`\bave\b`), "avenue"},
		{regexp.MustCompile(`\bdr\b`), "drive"},
		{regexp.MustCompile(`\bpl\b`), "place"},
		{regexp.MustCompile(`\bcr\b`), "crescent"},
		{regexp.MustCompile(`\bct\b`), "court"},
		{regexp.MustCompile(`\bln\b`), "lane"},
		{regexp.MustCompile(`\bwy\b`), "way"},
	}

	unitPattern = regexp.MustCompile(`\b(?:unit|apt|apartment|flat)\b`)
)

// NormalizeAddress canonicalizes free address text for similarity
// comparison: lowercase, punctuation to spaces, street-type abbreviations
// expanded, unit synonyms collapsed to "u", and whitespace runs collapsed.
// Empty input normalizes to the empty string, and the function is a fixed
// point: NormalizeAddress(NormalizeAddress(x)) == NormalizeAddress(x).
func NormalizeAddress(address string) string {
	if address == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(address))
	normalized = punctPattern.ReplaceAllString(normalized, " ")

	for _, street := range streetTypePatterns {
		normalized = street.pattern.ReplaceAllString(normalized, street.full)
	}

	normalized = unitPattern.ReplaceAllString(normalized, "u")

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(normalized, " "))
}
