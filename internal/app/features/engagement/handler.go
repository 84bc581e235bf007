// internal/app/features/engagement/handler.go
package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	articlestore "github.com/viralmotors/platform/internal/app/store/articles"
	bookmarkstore "github.com/viralmotors/platform/internal/app/store/bookmarks"
	likestore "github.com/viralmotors/platform/internal/app/store/likes"
	"github.com/viralmotors/platform/internal/app/system/gates"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the like and bookmark toggles on published articles.
type Handler struct {
	Articles  *articlestore.Store
	Likes     *likestore.Store
	Bookmarks *bookmarkstore.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(client *mongo.Client, db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Articles:  articlestore.New(db),
		Likes:     likestore.New(client, db),
		Bookmarks: bookmarkstore.New(db),
		ErrLog:    errLog,
		Log:       logger,
	}
}

// ServeToggleLike handles POST /articles/{id}/like.
func (h *Handler) ServeToggleLike(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	articleID, ok := h.publishedArticleID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	liked, err := h.Likes.Toggle(ctx, res.UserID, articleID)
	if err != nil {
		h.ErrLog.Internal(w, r, "engagement: like toggle failed", err)
		return
	}

	writeJSON(w, map[string]bool{"liked": liked})
}

// ServeToggleBookmark handles POST /articles/{id}/bookmark.
func (h *Handler) ServeToggleBookmark(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	articleID, ok := h.publishedArticleID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bookmarked, err := h.Bookmarks.Toggle(ctx, res.UserID, articleID)
	if err != nil {
		h.ErrLog.Internal(w, r, "engagement: bookmark toggle failed", err)
		return
	}

	writeJSON(w, map[string]bool{"bookmarked": bookmarked})
}

// publishedArticleID parses {id} and confirms the article exists and is
// published. Engagement on drafts or archived articles is a 404, same as
// reading them.
func (h *Handler) publishedArticleID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteValidation(w, "invalid article id")
		return primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "article not found")
			return primitive.NilObjectID, false
		}
		h.ErrLog.Internal(w, r, "engagement: article lookup failed", err)
		return primitive.NilObjectID, false
	}
	if a.Status != models.StatusPublished {
		uierrors.WriteNotFound(w, "article not found")
		return primitive.NilObjectID, false
	}
	return a.ID, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
