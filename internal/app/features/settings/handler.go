// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	"github.com/viralmotors/platform/internal/app/system/gates"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's notification preferences.
type Handler struct {
	Profiles *profilestore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profilestore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type settingsPayload struct {
	EmailNotifications bool `json:"email_notifications"`
	NewsletterOptIn    bool `json:"newsletter_opt_in"`
}

// ServeGet handles GET /settings.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, res.UserID)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			uierrors.WriteProfileNotFound(w)
			return
		}
		h.ErrLog.Internal(w, r, "settings: lookup failed", err)
		return
	}

	writeSettings(w, settingsPayload{
		EmailNotifications: p.EmailNotifications,
		NewsletterOptIn:    p.NewsletterOptIn,
	})
}

// ServeUpdate handles PUT /settings.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Profiles.UpdateSettings(ctx, res.UserID, profilestore.SettingsUpdate{
		EmailNotifications: req.EmailNotifications,
		NewsletterOptIn:    req.NewsletterOptIn,
	})
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			uierrors.WriteProfileNotFound(w)
			return
		}
		h.ErrLog.Internal(w, r, "settings: update failed", err)
		return
	}

	writeSettings(w, req)
}

func writeSettings(w http.ResponseWriter, s settingsPayload) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}
