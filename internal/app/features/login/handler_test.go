package login

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/indexes"
	"github.com/viralmotors/platform/internal/app/system/ratelimit"
	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()

	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	limiter := ratelimit.NewLoginLimiter(100, time.Minute)
	signupLimiter := ratelimit.NewLoginLimiter(100, time.Minute)
	return NewHandler(db, sm, uierrors.NewErrorLogger(logger), nil, limiter, signupLimiter, logger)
}

func TestSignupThenLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)

	// Sign up.
	rec := httptest.NewRecorder()
	h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", map[string]string{
		"email":    "new.writer@example.com",
		"password": "correct-horse",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &created)
	if created.Username != "new.writer" {
		t.Errorf("default username = %q, want email local part", created.Username)
	}
	if created.Role != "user" {
		t.Errorf("role = %q, want user", created.Role)
	}

	// Log in with the same credentials; email case differs.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email":    "New.Writer@Example.com",
		"password": "correct-horse",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie on login")
	}

	// Wrong password.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email":    "new.writer@example.com",
		"password": "wrong",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}

	// Unknown email gets the same 401, not a 404.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d, want 401", rec.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "long-enough-pw"}},
		{"short password", map[string]string{"email": "ok@example.com", "password": "short"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)

	body := map[string]string{"email": "taken@example.com", "password": "long-enough-pw"}
	rec := httptest.NewRecorder()
	h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409", rec.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	h.Limiter = ratelimit.NewLoginLimiter(2, time.Minute)

	body := map[string]string{"email": "target@example.com", "password": "wrong"}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", body))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", body))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("limited attempt status = %d, want 429", rec.Code)
	}
}

func TestSignupRateLimitIsSeparate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	h := newTestHandler(t, db)
	h.SignupLimiter = ratelimit.NewLoginLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", map[string]string{
			"email":    "bulk" + string(rune('a'+i)) + "@example.com",
			"password": "long-enough-pw",
		}))
		if rec.Code != http.StatusCreated {
			t.Fatalf("signup %d status = %d, body %s", i+1, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	h.HandleSignup(rec, testutil.JSONRequest(t, "POST", "/signup", map[string]string{
		"email":    "bulkc@example.com",
		"password": "long-enough-pw",
	}))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("limited signup status = %d, want 429", rec.Code)
	}

	// The exhausted signup limiter leaves logins untouched.
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{
		"email":    "bulka@example.com",
		"password": "wrong",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login after signup limit status = %d, want 401", rec.Code)
	}
}
