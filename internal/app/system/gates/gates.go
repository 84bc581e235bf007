// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, writing the appropriate
// error envelope when checks fail.
//
// # Two-Tier Authorization Pattern
//
// Viral Motors uses a two-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireAdmin)
//     Applied in routes.go files for coarse-grained access control.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need checks the route group doesn't express,
//     typically ownership: "author or editor/admin" on article mutation.
//     Gates write error responses and return user context.
//
// Don't use gates in handlers that are behind equivalent middleware.
// If routes.go has RequireAdmin, handlers use authz.UserCtx(r) to get user
// context without re-checking the role.
package gates

import (
	"net/http"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"github.com/viralmotors/platform/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role     string
	Username string
	UserID   primitive.ObjectID
	OK       bool
}

// RequireAuth ensures a user is authenticated.
// If not, it writes the unauthenticated envelope and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthenticated(w)
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, OK: true}
}

// RequireModerator ensures the user is authenticated and is an editor or
// admin. Used by handlers like archive that route-level middleware only
// guards for "signed in".
func RequireModerator(w http.ResponseWriter, r *http.Request, forbiddenMsg string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthenticated(w)
		return Result{OK: false}
	}
	if !authz.CanModerate(role) {
		uierrors.WriteForbidden(w, forbiddenMsg)
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, OK: true}
}

// RequireArticleAccess ensures the user is authenticated and may mutate an
// article owned by authorID: the author themselves, or an editor/admin.
func RequireArticleAccess(w http.ResponseWriter, r *http.Request, authorID primitive.ObjectID) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthenticated(w)
		return Result{OK: false}
	}
	if !authz.CanEditArticle(role, uid == authorID) {
		uierrors.WriteForbidden(w, "you can only modify your own articles")
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, OK: true}
}
