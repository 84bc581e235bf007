// Package content computes the derived presentation fields stored on an
// article: reading time, SEO fallbacks, and the sanitized body.
package content

import (
	"math"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const wordsPerMinute = 200

// strict strips all markup; it is used for word counts and excerpts.
// ugc allows the formatting tags the article editor produces.
var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Sanitize runs the article body through the UGC policy, dropping script
// tags, event handlers, and anything else a browser shouldn't execute.
func Sanitize(html string) string {
	return ugc.Sanitize(html)
}

// WordCount counts whitespace-separated words after stripping HTML tags.
// Tags are padded with a space before stripping; the strict policy removes
// them without inserting whitespace, which would merge words that touch only
// at a tag boundary.
func WordCount(html string) int {
	text := strict.Sanitize(strings.ReplaceAll(html, "<", " <"))
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// with a floor of 1 minute so even a stub article shows something.
func ReadingTime(html string) int {
	minutes := int(math.Ceil(float64(WordCount(html)) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// SEOTitle returns the explicit SEO title, or falls back to the article
// title, truncated to 57 characters plus "..." when it exceeds 60.
func SEOTitle(seoTitle, title string) string {
	if s := strings.TrimSpace(seoTitle); s != "" {
		return s
	}
	return truncate(title, 60, 57)
}

// SEODescription returns the explicit SEO description, or falls back to the
// excerpt, truncated to 157 characters plus "..." when it exceeds 160.
func SEODescription(seoDescription, excerpt string) string {
	if s := strings.TrimSpace(seoDescription); s != "" {
		return s
	}
	return truncate(excerpt, 160, 157)
}

// truncate cuts s at keep runes and appends "..." only when s exceeds max.
func truncate(s string, max, keep int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:keep]) + "..."
}
