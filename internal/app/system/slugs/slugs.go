// Package slugs generates URL slugs from article titles.
package slugs

import (
	"regexp"
	"strings"
)

var (
	nonWord   = regexp.MustCompile(`[^\w\s-]`)
	separator = regexp.MustCompile(`[\s_-]+`)
)

// Make derives a URL slug from a title: lowercase, punctuation stripped,
// runs of whitespace/underscores/hyphens collapsed to single hyphens, and
// leading/trailing hyphens trimmed.
//
//	"BMW M3: The Ultimate Track Car!" -> "bmw-m3-the-ultimate-track-car"
//
// An empty or all-punctuation title yields "". Callers reject that as a
// validation error rather than inventing a slug.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWord.ReplaceAllString(s, "")
	s = separator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
