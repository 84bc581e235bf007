package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type stubFetcher struct {
	users map[string]*SessionUser
}

func (f *stubFetcher) FetchUser(_ context.Context, userID string) *SessionUser {
	return f.users[userID]
}

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error envelope %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestManager(t)
	mw := sm.RequireSignedIn(okHandler())

	t.Run("api request gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/bookmarks", nil)
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if code := errorCode(t, rec); code != "unauthenticated" {
			t.Errorf("error code = %q", code)
		}
	})

	t.Run("browser request redirects home with return path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/bookmarks?page=2", nil)
		r.Header.Set("Accept", "text/html,application/xhtml+xml")
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		// Only the path is echoed; the query string is dropped.
		if loc := rec.Header().Get("Location"); loc != "/?redirect=%2Fbookmarks" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("signed-in request passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/bookmarks", nil)
		r = WithTestUser(r, &SessionUser{ID: "abc", Role: "user", HasProfile: true})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	sm := newTestManager(t)
	mw := sm.RequireAdmin(okHandler())

	t.Run("anonymous api request gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest("GET", "/admin", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("user without profile gets profile_not_found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/admin", nil)
		r = WithTestUser(r, &SessionUser{ID: "abc", HasProfile: false})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if code := errorCode(t, rec); code != "profile_not_found" {
			t.Errorf("error code = %q", code)
		}
	})

	t.Run("browser without profile redirects to profile creation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/admin", nil)
		r.Header.Set("Accept", "text/html")
		r = WithTestUser(r, &SessionUser{ID: "abc", HasProfile: false})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/profile/new?error=profile_not_found" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("non-admin api request gets 403 forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/admin", nil)
		r = WithTestUser(r, &SessionUser{ID: "abc", Role: "editor", HasProfile: true})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if code := errorCode(t, rec); code != "forbidden" {
			t.Errorf("error code = %q", code)
		}
	})

	t.Run("non-admin browser request redirects blocked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/admin/users", nil)
		r.Header.Set("Accept", "text/html")
		r = WithTestUser(r, &SessionUser{ID: "abc", Role: "user", HasProfile: true})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/?blocked=true&path=%2Fadmin%2Fusers" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/admin", nil)
		r = WithTestUser(r, &SessionUser{ID: "abc", Role: "admin", HasProfile: true})
		mw.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	sm.SetUserFetcher(&stubFetcher{users: map[string]*SessionUser{
		"user-1": {ID: "user-1", Username: "pat", Role: "user", HasProfile: true},
	}})

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, r, "user-1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	// Replay the cookie through LoadSessionUser.
	var got *SessionUser
	mw := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	mw.ServeHTTP(httptest.NewRecorder(), r2)

	if got == nil {
		t.Fatal("no user loaded from session")
	}
	if got.Username != "pat" {
		t.Errorf("username = %q", got.Username)
	}

	// A session whose user vanished is treated as signed out.
	sm.SetUserFetcher(&stubFetcher{users: map[string]*SessionUser{}})
	got = nil
	mw.ServeHTTP(httptest.NewRecorder(), r2.Clone(r2.Context()))
	if got != nil {
		t.Errorf("deleted user still resolves: %+v", got)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	sm := newTestManager(t)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/logout", nil)
	if err := sm.SignOut(rec, r); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no deletion cookie set")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cookies[0].MaxAge)
	}
}
