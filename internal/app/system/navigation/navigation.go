// Package navigation provides helpers for safe redirect targets.
package navigation

import "strings"

// SafeRedirectPath validates a client-supplied return path. Only same-site
// absolute paths are accepted; anything that could leave the site (absolute
// URLs, scheme-relative "//host" forms, backslash tricks) falls back to "/".
func SafeRedirectPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") {
		return "/"
	}
	if strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	if strings.ContainsAny(p, "\r\n") {
		return "/"
	}
	return p
}
