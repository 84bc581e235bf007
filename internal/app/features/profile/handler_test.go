package profile

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/indexes"
	"github.com/viralmotors/platform/internal/domain/models"
	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func asUser(r *http.Request, id primitive.ObjectID) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID: id.Hex(), Username: "tester", Role: "user", HasProfile: true,
	})
}

func TestGetLazilyCreatesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	// A user with no profile row yet.
	u := fx.CreateUser(ctx, "lazy.profile@example.com")

	rec := httptest.NewRecorder()
	h.ServeGet(rec, asUser(httptest.NewRequest("GET", "/profile", nil), u.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p models.Profile
	testutil.DecodeJSON(t, rec, &p)
	if p.Username != "lazy.profile" {
		t.Errorf("username = %q, want email local part", p.Username)
	}
	if p.Role != "user" {
		t.Errorf("role = %q", p.Role)
	}

	// A second GET returns the same profile, not another one.
	rec = httptest.NewRecorder()
	h.ServeGet(rec, asUser(httptest.NewRequest("GET", "/profile", nil), u.ID))
	var again models.Profile
	testutil.DecodeJSON(t, rec, &again)
	if again.ID != p.ID {
		t.Error("second GET created a second profile")
	}
}

func TestUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	u := fx.CreateUser(ctx, "owner@example.com")
	fx.CreateProfile(ctx, u.ID, "owner", u.Email, "user")

	rec := httptest.NewRecorder()
	r := testutil.JSONRequest(t, "PUT", "/profile", map[string]string{
		"username":  "wrenching",
		"full_name": "Sam Spanner",
		"bio":       "home mechanic",
	})
	h.ServeUpdate(rec, asUser(r, u.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p models.Profile
	testutil.DecodeJSON(t, rec, &p)
	if p.Username != "wrenching" || p.FullName != "Sam Spanner" {
		t.Errorf("profile = %+v", p)
	}
}

func TestUpdateUsernameConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)
	fx := testutil.NewFixtures(t, db)

	first := fx.CreateUser(ctx, "first@example.com")
	fx.CreateProfile(ctx, first.ID, "firstname", first.Email, "user")
	second := fx.CreateUser(ctx, "second@example.com")
	fx.CreateProfile(ctx, second.ID, "secondname", second.Email, "user")

	rec := httptest.NewRecorder()
	r := testutil.JSONRequest(t, "PUT", "/profile", map[string]string{"username": "firstname"})
	h.ServeUpdate(rec, asUser(r, second.ID))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	rec := httptest.NewRecorder()
	r := testutil.JSONRequest(t, "PUT", "/profile", map[string]string{"username": "   "})
	h.ServeUpdate(rec, asUser(r, primitive.NewObjectID()))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank username status = %d, want 400", rec.Code)
	}

	// Anonymous.
	rec = httptest.NewRecorder()
	h.ServeGet(rec, httptest.NewRequest("GET", "/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
}
