// internal/app/features/newsletter/handler.go
package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	newsletterstore "github.com/viralmotors/platform/internal/app/store/newsletter"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/app/system/validators"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves newsletter signups and unsubscribes. Both endpoints are
// public; the signup sits behind a per-IP rate limit applied in routes.
type Handler struct {
	Subscribers *newsletterstore.Store
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Subscribers: newsletterstore.New(db),
		ErrLog:      errLog,
		Log:         logger,
	}
}

// subscribeRequest tolerates loose clients: interests may arrive as any JSON
// array, and non-string entries are dropped rather than rejected.
type subscribeRequest struct {
	Email     string `json:"email"`
	Interests []any  `json:"interests"`
}

type subscribeResponse struct {
	Email      string   `json:"email"`
	Interests  []string `json:"interests"`
	Subscribed bool     `json:"subscribed"`
}

// ServeSubscribe handles POST /newsletter.
func (h *Handler) ServeSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	if !validators.ValidEmail(req.Email) {
		uierrors.WriteValidation(w, "a valid email address is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Subscribers.Subscribe(ctx, req.Email, normalize.Interests(req.Interests))
	if err != nil {
		h.ErrLog.Internal(w, r, "newsletter: subscribe failed", err)
		return
	}

	h.Log.Info("newsletter signup", zap.String("email", sub.Email))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(subscribeResponse{
		Email:      sub.Email,
		Interests:  sub.Interests,
		Subscribed: sub.Subscribed,
	})
}

// ServeUnsubscribe handles GET /newsletter/unsubscribe?token=...
// It is a GET because the link lands in email clients.
func (h *Handler) ServeUnsubscribe(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")
	if token == "" {
		uierrors.WriteValidation(w, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Subscribers.Unsubscribe(ctx, token); err != nil {
		if errors.Is(err, newsletterstore.ErrTokenNotFound) {
			uierrors.WriteNotFound(w, "unknown unsubscribe token")
			return
		}
		h.ErrLog.Internal(w, r, "newsletter: unsubscribe failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"unsubscribed": true})
}
