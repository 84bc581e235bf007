// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/viralmotors/platform/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), username, Mongo ObjectID, and
// a found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false. This ensures callers can
// trust that ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Username, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsEditor reports whether the current request's user is an editor.
func IsEditor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "editor"
}

// CanAccessAdmin reports whether the given role may enter /admin routes.
// Only admins qualify; editors moderate content but do not get the console.
func CanAccessAdmin(role string) bool {
	return strings.ToLower(role) == "admin"
}

// CanModerate reports whether the given role may act on other people's
// content (publish, archive, edit).
func CanModerate(role string) bool {
	role = strings.ToLower(role)
	return role == "editor" || role == "admin"
}

// CanEditArticle reports whether a user with the given role may mutate an
// article. Authors may always edit their own work; editors and admins may
// edit anything.
func CanEditArticle(role string, isAuthor bool) bool {
	return isAuthor || CanModerate(role)
}
