package catalog

import (
	"regexp"
	"strings"
)

const maxSlugLength = 200

var (
	hebrewChars     = regexp.MustCompile(`[\x{0590}-\x{05FF}]`)
	separatorRuns   = regexp.MustCompile(`[_\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}/\\|+]+`)
	disallowedChars = regexp.MustCompile(`[^a-z0-9\-.]`)
	hyphenRuns      = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL-safe slug from a title. Hebrew characters are
// dropped, separators collapse to a single hyphen and the result is at most
// 200 characters. Hyphens are trimmed again after truncation so a cut slug
// never ends in one.
func GenerateSlug(title string) string {
	s := strings.ToLower(title)
	s = hebrewChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	s = disallowedChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

// GenerateProductSlug appends the last 8 characters of the external id to the
// title slug. An empty title slug yields the bare id suffix.
func GenerateProductSlug(title, externalID string) string {
	base := GenerateSlug(title)
	suffix := externalID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
