// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// Roles recognized by the site, lowest to highest privilege.
const (
	RoleUser   = "user"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// HasAnyRole reports whether the current request's user has any of the given
// roles. Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Role returns the current user's role (lowercased) and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}
