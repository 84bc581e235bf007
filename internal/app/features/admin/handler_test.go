package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/domain/models"
	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(db, uierrors.NewErrorLogger(logger), nil, logger)
}

func asAdmin(r *http.Request) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Username: "root", Role: "admin", HasProfile: true,
	})
}

func TestDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	author := primitive.NewObjectID()
	fx.CreateArticle(ctx, author, "Dash Draft", models.StatusDraft)
	fx.CreateArticle(ctx, author, "Dash Published", models.StatusPublished)
	if _, err := h.Subscribers.Subscribe(ctx, "sub@example.com", nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, asAdmin(httptest.NewRequest("GET", "/admin", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Articles struct {
			Drafts    int64 `json:"drafts"`
			Published int64 `json:"published"`
		} `json:"articles"`
		Subscribers int64 `json:"newsletter_subscribers"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Articles.Drafts != 1 || resp.Articles.Published != 1 {
		t.Errorf("article stats = %+v", resp.Articles)
	}
	if resp.Subscribers != 1 {
		t.Errorf("subscribers = %d, want 1", resp.Subscribers)
	}
}

func TestArticlesAnyStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	author := primitive.NewObjectID()
	fx.CreateArticle(ctx, author, "Admin Draft", models.StatusDraft)
	fx.CreateArticle(ctx, author, "Admin Published", models.StatusPublished)

	rec := httptest.NewRecorder()
	h.ServeArticles(rec, asAdmin(httptest.NewRequest("GET", "/admin/articles", nil)))
	var resp struct {
		Articles []models.Article `json:"articles"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Articles) != 2 {
		t.Errorf("unfiltered count = %d, want 2", len(resp.Articles))
	}

	rec = httptest.NewRecorder()
	h.ServeArticles(rec, asAdmin(httptest.NewRequest("GET", "/admin/articles?status=draft", nil)))
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Articles) != 1 || resp.Articles[0].Status != models.StatusDraft {
		t.Errorf("draft filter = %+v", resp.Articles)
	}

	rec = httptest.NewRecorder()
	h.ServeArticles(rec, asAdmin(httptest.NewRequest("GET", "/admin/articles?status=bogus", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus status filter = %d, want 400", rec.Code)
	}
}

func TestSetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	u := fx.CreateUser(ctx, "promotee@example.com")
	p := fx.CreateProfile(ctx, u.ID, "promotee", u.Email, "user")

	rec := httptest.NewRecorder()
	r := testutil.JSONRequest(t, "PUT", "/admin/users/"+p.ID.Hex()+"/role", map[string]string{"role": "editor"})
	r = testutil.WithChiURLParam(r, "id", p.ID.Hex())
	h.ServeSetRole(rec, asAdmin(r))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var updated models.Profile
	testutil.DecodeJSON(t, rec, &updated)
	if updated.Role != "editor" {
		t.Errorf("role = %q, want editor", updated.Role)
	}

	// Invalid role.
	rec = httptest.NewRecorder()
	r = testutil.JSONRequest(t, "PUT", "/admin/users/"+p.ID.Hex()+"/role", map[string]string{"role": "owner"})
	r = testutil.WithChiURLParam(r, "id", p.ID.Hex())
	h.ServeSetRole(rec, asAdmin(r))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want 400", rec.Code)
	}

	// Unknown profile.
	missing := primitive.NewObjectID()
	rec = httptest.NewRecorder()
	r = testutil.JSONRequest(t, "PUT", "/admin/users/"+missing.Hex()+"/role", map[string]string{"role": "admin"})
	r = testutil.WithChiURLParam(r, "id", missing.Hex())
	h.ServeSetRole(rec, asAdmin(r))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want 404", rec.Code)
	}
}

func TestUsersList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	u := fx.CreateUser(ctx, "listed@example.com")
	fx.CreateProfile(ctx, u.ID, "listed", u.Email, "user")

	rec := httptest.NewRecorder()
	h.ServeUsers(rec, asAdmin(httptest.NewRequest("GET", "/admin/users", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Users []models.Profile `json:"users"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Users) != 1 || resp.Users[0].Username != "listed" {
		t.Errorf("users = %+v", resp.Users)
	}
}
