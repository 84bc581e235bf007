package home

import (
	"net/http/httptest"
	"testing"

	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/testutil"
	"go.uber.org/zap"
)

func TestServe(t *testing.T) {
	h := NewHandler(zap.NewNop())

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Serve(rec, httptest.NewRequest("GET", "/", nil))

		var resp struct {
			Service       string `json:"service"`
			Authenticated bool   `json:"authenticated"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		if resp.Service != "viralmotors" || resp.Authenticated {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("signed in", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r = auth.WithTestUser(r, &auth.SessionUser{ID: "x", Username: "pat", Role: "editor", HasProfile: true})
		h.Serve(rec, r)

		var resp struct {
			Authenticated bool   `json:"authenticated"`
			Username      string `json:"username"`
			Role          string `json:"role"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		if !resp.Authenticated || resp.Username != "pat" || resp.Role != "editor" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("guard params echoed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Serve(rec, httptest.NewRequest("GET", "/?blocked=true&path=%2Fadmin&redirect=%2Fbookmarks", nil))

		var resp struct {
			Redirect    string `json:"redirect"`
			Blocked     bool   `json:"blocked"`
			BlockedPath string `json:"blocked_path"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		if !resp.Blocked || resp.BlockedPath != "/admin" || resp.Redirect != "/bookmarks" {
			t.Errorf("resp = %+v", resp)
		}
	})
}
