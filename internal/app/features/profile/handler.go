// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	userstore "github.com/viralmotors/platform/internal/app/store/users"
	"github.com/viralmotors/platform/internal/app/system/gates"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile.
type Handler struct {
	Users    *userstore.Store
	Profiles *profilestore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Profiles: profilestore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

// ServeGet handles GET /profile. A missing profile is created on the spot
// with defaults, so accounts predating profiles heal themselves here.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, res.UserID)
	if err != nil {
		if !errors.Is(err, profilestore.ErrNotFound) {
			h.ErrLog.Internal(w, r, "profile: lookup failed", err)
			return
		}
		p, err = h.createDefault(ctx, res.UserID)
		if err != nil {
			h.ErrLog.Internal(w, r, "profile: default create failed", err)
			return
		}
	}

	writeProfile(w, http.StatusOK, p)
}

type profileUpdateRequest struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
	Location  string `json:"location"`
}

// ServeUpdate handles PUT /profile.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	req.Username = normalize.Username(req.Username)
	if req.Username == "" {
		uierrors.WriteValidation(w, "username is required")
		return
	}
	if len(req.Username) > 40 {
		uierrors.WriteValidation(w, "username must be 40 characters or fewer")
		return
	}
	if strings.ContainsAny(req.Username, " \t") {
		uierrors.WriteValidation(w, "username must not contain spaces")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Profiles.Update(ctx, res.UserID, profilestore.ProfileUpdate{
		Username:  req.Username,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Website:   req.Website,
		Location:  req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilestore.ErrDuplicateUsername):
			uierrors.WriteConflict(w, "this username is already taken")
		case errors.Is(err, profilestore.ErrNotFound):
			uierrors.WriteProfileNotFound(w)
		default:
			h.ErrLog.Internal(w, r, "profile: update failed", err)
		}
		return
	}

	p, err := h.Profiles.GetByUserID(ctx, res.UserID)
	if err != nil {
		h.ErrLog.Internal(w, r, "profile: reload failed", err)
		return
	}
	writeProfile(w, http.StatusOK, p)
}

// createDefault looks up the account email and creates the default profile.
func (h *Handler) createDefault(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := h.Profiles.CreateDefault(ctx, userID, u.Email)
	if err != nil {
		return nil, err
	}
	h.Log.Info("created default profile on first visit",
		zap.String("user_id", userID.Hex()),
		zap.String("username", p.Username))
	return &p, nil
}

func writeProfile(w http.ResponseWriter, status int, p *models.Profile) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}
