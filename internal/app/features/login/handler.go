// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	userstore "github.com/viralmotors/platform/internal/app/store/users"
	"github.com/viralmotors/platform/internal/app/system/auditlog"
	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/app/system/ratelimit"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/app/system/validators"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves password sign-in and sign-up. Login and signup carry
// separate limiters: login attempts are frequent and legitimate, account
// creation from one IP is not.
type Handler struct {
	Users         *userstore.Store
	Profiles      *profilestore.Store
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Limiter       *ratelimit.LoginLimiter
	SignupLimiter *ratelimit.LoginLimiter
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, limiter, signupLimiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		Profiles:      profilestore.New(db),
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      auditLog,
		Limiter:       limiter,
		SignupLimiter: signupLimiter,
		Log:           logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}
	creds.Email = normalize.Email(creds.Email)

	if ok, reason := h.Limiter.Check(r, creds.Email); !ok {
		uierrors.WriteRateLimited(w, reason)
		return
	}

	if creds.Email == "" || creds.Password == "" {
		uierrors.WriteValidation(w, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.AuditLog.SignIn(ctx, r, nil, false, "unknown email")
			uierrors.Write(w, http.StatusUnauthorized, uierrors.CodeUnauthenticated, "invalid email or password")
			return
		}
		h.ErrLog.Internal(w, r, "login: user lookup failed", err)
		return
	}

	if u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(creds.Password)) != nil {
		h.AuditLog.SignIn(ctx, r, &u.ID, false, "bad password")
		uierrors.Write(w, http.StatusUnauthorized, uierrors.CodeUnauthenticated, "invalid email or password")
		return
	}

	p, err := h.ensureProfile(ctx, u)
	if err != nil {
		h.ErrLog.Internal(w, r, "login: profile ensure failed", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.Internal(w, r, "login: session save failed", err)
		return
	}

	h.Limiter.ResetEmail(creds.Email)
	h.AuditLog.SignIn(ctx, r, &u.ID, true, "")

	writeSession(w, http.StatusOK, u, p)
}

// HandleSignup handles POST /signup: creates the user, its default profile,
// and signs the new account in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}
	creds.Email = normalize.Email(creds.Email)

	if ok, reason := h.SignupLimiter.Check(r, creds.Email); !ok {
		uierrors.WriteRateLimited(w, reason)
		return
	}

	if !validators.ValidEmail(creds.Email) {
		uierrors.WriteValidation(w, "a valid email address is required")
		return
	}
	if len(creds.Password) < 8 {
		uierrors.WriteValidation(w, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.Internal(w, r, "signup: bcrypt failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	hashStr := string(hash)
	u, err := h.Users.Create(ctx, models.User{
		Email:        creds.Email,
		PasswordHash: &hashStr,
		AuthMethod:   "password",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			uierrors.WriteConflict(w, "an account with this email already exists")
			return
		}
		h.ErrLog.Internal(w, r, "signup: user create failed", err)
		return
	}

	p, err := h.ensureProfile(ctx, &u)
	if err != nil {
		h.ErrLog.Internal(w, r, "signup: profile create failed", err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.Internal(w, r, "signup: session save failed", err)
		return
	}

	h.AuditLog.SignIn(ctx, r, &u.ID, true, "signup")
	writeSession(w, http.StatusCreated, &u, p)
}

// ensureProfile implements lazy profile creation: users who signed up before
// profiles existed (or via OAuth) get their default profile on sign-in.
func (h *Handler) ensureProfile(ctx context.Context, u *models.User) (*models.Profile, error) {
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
	h.Log.Info("created default profile on sign-in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("username", created.Username))
	return &created, nil
}

func writeSession(w http.ResponseWriter, status int, u *models.User, p *models.Profile) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(sessionResponse{
		UserID:   u.ID.Hex(),
		Username: p.Username,
		Email:    u.Email,
		Role:     p.Role,
	})
}
