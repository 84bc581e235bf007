// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	articlestore "github.com/viralmotors/platform/internal/app/store/articles"
	"github.com/viralmotors/platform/internal/app/store/audit"
	newsletterstore "github.com/viralmotors/platform/internal/app/store/newsletter"
	profilestore "github.com/viralmotors/platform/internal/app/store/profiles"
	"github.com/viralmotors/platform/internal/app/system/auditlog"
	"github.com/viralmotors/platform/internal/app/system/authz"
	"github.com/viralmotors/platform/internal/app/system/paging"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin console. All routes are mounted behind
// RequireAdmin, so handlers read user context without re-checking the role.
type Handler struct {
	Articles    *articlestore.Store
	Profiles    *profilestore.Store
	Subscribers *newsletterstore.Store
	Audit       *audit.Store
	AuditLog    *auditlog.Logger
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Articles:    articlestore.New(db),
		Profiles:    profilestore.New(db),
		Subscribers: newsletterstore.New(db),
		Audit:       audit.New(db),
		AuditLog:    auditLog,
		ErrLog:      errLog,
		Log:         logger,
	}
}

type dashboardResponse struct {
	Articles    articlestore.Stats `json:"articles"`
	Subscribers int64              `json:"newsletter_subscribers"`
}

// ServeDashboard handles GET /admin: content and subscriber totals.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := h.Articles.CollectStats(ctx)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: article stats failed", err)
		return
	}

	subs, err := h.Subscribers.CountSubscribed(ctx)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: subscriber count failed", err)
		return
	}

	writeJSON(w, dashboardResponse{Articles: stats, Subscribers: subs})
}

type articleListResponse struct {
	Articles []models.Article `json:"articles"`
	Limit    int64            `json:"limit"`
	Offset   int64            `json:"offset"`
}

// ServeArticles handles GET /admin/articles: any status, most recently
// updated first, filterable by ?status=.
func (h *Handler) ServeArticles(w http.ResponseWriter, r *http.Request) {
	f := articlestore.Filter{}
	switch status := strings.TrimSpace(query.Get(r, "status")); status {
	case "":
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		f.Status = status
	default:
		uierrors.WriteValidation(w, `status must be "draft", "published", or "archived"`)
		return
	}

	limit, offset := paging.ParseLimitOffset(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Articles.List(ctx, f, limit, offset)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: article list failed", err)
		return
	}
	if list == nil {
		list = []models.Article{}
	}

	writeJSON(w, articleListResponse{Articles: list, Limit: limit, Offset: offset})
}

// ServeArticle handles GET /admin/articles/{id}: a single article regardless
// of status, for moderation review.
func (h *Handler) ServeArticle(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteValidation(w, "invalid article id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "article not found")
			return
		}
		h.ErrLog.Internal(w, r, "admin: article lookup failed", err)
		return
	}

	writeJSON(w, a)
}

type userListResponse struct {
	Users []models.Profile `json:"users"`
}

// ServeUsers handles GET /admin/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := paging.ParseLimitOffset(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Profiles.List(ctx, limit)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: user list failed", err)
		return
	}
	if list == nil {
		list = []models.Profile{}
	}

	writeJSON(w, userListResponse{Users: list})
}

type roleRequest struct {
	Role string `json:"role"`
}

// ServeSetRole handles PUT /admin/users/{id}/role. {id} is the profile ID.
func (h *Handler) ServeSetRole(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	profileID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteValidation(w, "invalid profile id")
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}
	if !authz.ValidRole(strings.ToLower(strings.TrimSpace(req.Role))) {
		uierrors.WriteValidation(w, `role must be "user", "editor", or "admin"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Profiles.SetRole(ctx, profileID, req.Role); err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "profile not found")
			return
		}
		h.ErrLog.Internal(w, r, "admin: role update failed", err)
		return
	}

	h.AuditLog.RoleChanged(ctx, r, actorID, profileID, req.Role)

	p, err := h.Profiles.GetByID(ctx, profileID)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: profile reload failed", err)
		return
	}
	writeJSON(w, p)
}

type auditResponse struct {
	Events []audit.Event `json:"events"`
}

// ServeAudit handles GET /admin/audit: the most recent audit events.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := paging.ParseLimitOffset(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.Recent(ctx, limit)
	if err != nil {
		h.ErrLog.Internal(w, r, "admin: audit list failed", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, auditResponse{Events: events})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
