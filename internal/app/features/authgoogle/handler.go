// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	"github.com/viralmotors/platform/internal/app/store/oauthstate"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	userstore "github.com/viralmotors/platform/internal/app/store/users"
	"github.com/viralmotors/platform/internal/app/system/auditlog"
	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/navigation"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth authentication.
type Handler struct {
	Users      *userstore.Store
	Profiles   *profilestore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	StateStore *oauthstate.Store
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://viralmotors.com/auth/google/callback"
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Profiles:     profilestore.New(db),
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		StateStore:   oauthstate.New(db),
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google and redirects the visitor to Google's
// consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	returnPath := query.Get(r, "redirect")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnPath, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("return_path", returnPath))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: validates the state,
// exchanges the code for tokens, fetches the Google profile, finds or creates
// the matching account, and signs it in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnPath, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/?error=user_info", http.StatusSeeOther)
		return
	}
	if googleUser.Email == "" {
		h.Log.Warn("Google user info had no email")
		http.Redirect(w, r, "/?error=user_info", http.StatusSeeOther)
		return
	}

	u, err := h.findOrCreateUser(ctxTimeout, googleUser)
	if err != nil {
		h.ErrLog.Internal(w, r, "google oauth: user lookup failed", err)
		return
	}

	p, err := h.ensureProfile(ctxTimeout, u, googleUser)
	if err != nil {
		h.ErrLog.Internal(w, r, "google oauth: profile ensure failed", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.Internal(w, r, "google oauth: session save failed", err)
		return
	}

	h.AuditLog.SignIn(ctx, r, &u.ID, true, "google")

	h.Log.Info("user signed in via Google OAuth",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", p.Username))

	http.Redirect(w, r, navigation.SafeRedirectPath(returnPath), http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// findOrCreateUser matches the Google account to an existing user by email,
// creating one with the google auth method on first sign-in. An existing
// password account with the same email is reused as-is; sign-in via Google
// does not alter its credentials.
func (h *Handler) findOrCreateUser(ctx context.Context, g *googleUserInfo) (*models.User, error) {
	u, err := h.Users.GetByEmail(ctx, g.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		Email:      g.Email,
		AuthMethod: "google",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Raced with a concurrent first sign-in; the other insert won.
			return h.Users.GetByEmail(ctx, g.Email)
		}
		return nil, err
	}

	h.Log.Info("created user from Google sign-in",
		zap.String("user_id", created.ID.Hex()))
	return &created, nil
}

// ensureProfile lazily creates the default profile, seeding full name and
// avatar from Google on first creation only.
func (h *Handler) ensureProfile(ctx context.Context, u *models.User, g *googleUserInfo) (*models.Profile, error) {
	p, err := h.Profiles.GetByUserID(ctx, u.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profilestore.ErrNotFound) {
		return nil, err
	}

	created, err := h.Profiles.CreateDefault(ctx, u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	if g.Name != "" || g.Picture != "" {
		err := h.Profiles.Update(ctx, u.ID, profilestore.ProfileUpdate{
			Username:  created.Username,
			FullName:  g.Name,
			AvatarURL: g.Picture,
		})
		if err != nil {
			h.Log.Warn("failed to seed profile from Google info",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			created.FullName = g.Name
			created.AvatarURL = g.Picture
		}
	}

	return &created, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
