package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what LoadSessionUser injects into r.Context(). It is
// rebuilt on every request via the UserFetcher so role changes and profile
// edits take effect immediately.
type SessionUser struct {
	ID         string // user ObjectID hex
	Username   string
	Email      string
	Role       string // user | editor | admin; empty when HasProfile is false
	HasProfile bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser returns a request whose context carries the given user.
// For handler tests that bypass the session middleware.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// UserFetcher loads fresh user data for a session's user ID.
// Implementations return nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager owns the cookie store and the auth middleware built on it.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager initializes the cookie store using the provided session
// key, cookie name, and domain. The `secure` flag controls whether cookies
// are marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies are Secure + SameSite=None so they can
// be sent in cross-site contexts over HTTPS. In local dev over
// http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher installs the fetcher LoadSessionUser uses to rebuild the
// SessionUser from the database on each request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// Store exposes the underlying cookie store (used by logout to mirror
// cookie options on the deletion cookie).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the request's session, creating a fresh one if the
// cookie is missing or fails to decode.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn marks the session authenticated for the given user ID.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1 // delete immediately
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the user into context if they are logged in.
// The user is always fetched fresh via the UserFetcher; a session whose user
// no longer exists is treated as signed out.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// A cookie signed with a rotated key (or tampered with) fails to
			// decode; store.Get already handed back a fresh session, so the
			// request just proceeds signed out.
			var scErr securecookie.Error
			if errors.As(err, &scErr) && scErr.IsDecode() {
				sm.log.Debug("session cookie failed to decode", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			userID, _ := sess.Values[userIDKey].(string)
			if userID != "" && sm.fetcher != nil {
				if u := sm.fetcher.FetchUser(r.Context(), userID); u != nil {
					r = withUser(r, u)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTML: 303 redirect to /?redirect=<path> (the home page opens the
//     sign-in modal and returns the visitor afterwards)
//   - API:  401 with the unauthenticated error envelope
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToSignIn(w, r)
	})
}

// RequireAdmin ensures the user is signed in, has a profile, and holds the
// admin role. Outcomes mirror the route guard contract:
//   - not signed in        → /?redirect=<path> (HTML) or 401 (API)
//   - no profile           → /profile/new?error=profile_not_found (HTML) or 403 (API)
//   - signed in, not admin → /?blocked=true&path=<path> (HTML) or 403 (API)
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			redirectToSignIn(w, r)
			return
		}

		if !u.HasProfile {
			if wantsHTML(r) {
				http.Redirect(w, r, "/profile/new?error=profile_not_found", http.StatusSeeOther)
				return
			}
			uierrors.WriteProfileNotFound(w)
			return
		}

		if strings.ToLower(u.Role) != "admin" {
			if wantsHTML(r) {
				http.Redirect(w, r, "/?blocked=true&path="+url.QueryEscape(currentPath(r)), http.StatusSeeOther)
				return
			}
			uierrors.WriteForbidden(w, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// helpers

func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/?redirect="+url.QueryEscape(currentPath(r)), http.StatusSeeOther)
		return
	}
	uierrors.WriteUnauthenticated(w)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: browsers send Accept: text/html; API clients don't.
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// currentPath returns the request path only. Query strings and absolute URLs
// are deliberately excluded so redirect parameters can never point off-site.
func currentPath(r *http.Request) string {
	return r.URL.Path
}
