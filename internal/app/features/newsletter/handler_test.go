package newsletter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"github.com/viralmotors/platform/internal/app/system/indexes"
	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func TestSubscribe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)

	rec := httptest.NewRecorder()
	h.ServeSubscribe(rec, testutil.JSONRequest(t, "POST", "/newsletter", map[string]any{
		"email": "Fan@Example.com",
		// Loose clients mix types; non-strings are dropped.
		"interests": []any{"ev", 42, "racing", nil},
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Email      string   `json:"email"`
		Interests  []string `json:"interests"`
		Subscribed bool     `json:"subscribed"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Email != "fan@example.com" {
		t.Errorf("email = %q", resp.Email)
	}
	if len(resp.Interests) != 2 {
		t.Errorf("interests = %v, want the 2 strings", resp.Interests)
	}
	if !resp.Subscribed {
		t.Error("subscribed = false")
	}
}

func TestSubscribeValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	for _, email := range []string{"", "not-an-email", "missing@tld"} {
		rec := httptest.NewRecorder()
		h.ServeSubscribe(rec, testutil.JSONRequest(t, "POST", "/newsletter", map[string]any{
			"email": email,
		}))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("email %q: status = %d, want 400", email, rec.Code)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	h := newTestHandler(t, db)

	sub, err := h.Subscribers.Subscribe(ctx, "leaver@example.com", nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeUnsubscribe(rec, httptest.NewRequest("GET", "/newsletter/unsubscribe?token="+sub.UnsubscribeToken, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := h.Subscribers.GetByEmail(ctx, "leaver@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.Subscribed {
		t.Error("still subscribed")
	}

	// Unknown token.
	rec = httptest.NewRecorder()
	h.ServeUnsubscribe(rec, httptest.NewRequest("GET", "/newsletter/unsubscribe?token=bogus", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown token status = %d, want 404", rec.Code)
	}

	// Missing token.
	rec = httptest.NewRecorder()
	h.ServeUnsubscribe(rec, httptest.NewRequest("GET", "/newsletter/unsubscribe", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing token status = %d, want 400", rec.Code)
	}
}
