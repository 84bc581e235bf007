// internal/app/system/validators/input.go
package validators

import "regexp"

// emailRe matches the pragmatic email shape used across signup and the
// newsletter form. Intentionally not RFC-complete.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
