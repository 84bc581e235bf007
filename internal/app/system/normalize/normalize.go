// Package normalize holds small input-normalization helpers shared by stores
// and handlers. Keeping them in one place means every collection stores
// emails, usernames, and roles the same way.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username trims a username. Case is preserved for display; the folded
// username_ci field handles case-insensitive uniqueness.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role string, defaulting to "user" when empty.
func Role(s string) string {
	r := strings.ToLower(strings.TrimSpace(s))
	if r == "" {
		return "user"
	}
	return r
}

// Interests keeps only non-empty string values from a decoded JSON array.
// Signup payloads arrive from the browser, so the array can contain
// anything; everything that isn't a usable string is dropped.
func Interests(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Tags lowercases and trims tag strings and drops empties, preserving order.
// Tag filters compare with plain equality, so stored tags must match the
// lowercased query value.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
