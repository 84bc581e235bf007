// internal/app/features/bookmarks/handler.go
package bookmarks

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/viralmotors/platform/internal/app/features/errors"
	articlestore "github.com/viralmotors/platform/internal/app/store/articles"
	bookmarkstore "github.com/viralmotors/platform/internal/app/store/bookmarks"
	"github.com/viralmotors/platform/internal/app/system/gates"
	"github.com/viralmotors/platform/internal/app/system/paging"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's reading list.
type Handler struct {
	Articles  *articlestore.Store
	Bookmarks *bookmarkstore.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Articles:  articlestore.New(db),
		Bookmarks: bookmarkstore.New(db),
		ErrLog:    errLog,
		Log:       logger,
	}
}

type listResponse struct {
	Articles []models.Article `json:"articles"`
}

// ServeList handles GET /bookmarks: the user's bookmarked articles in
// bookmark order, newest first. Articles that have since been archived or
// unpublished drop out of the list.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	limit, _ := paging.ParseLimitOffset(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := h.Bookmarks.ListArticleIDs(ctx, res.UserID, limit)
	if err != nil {
		h.ErrLog.Internal(w, r, "bookmarks: id list failed", err)
		return
	}

	out := []models.Article{}
	if len(ids) > 0 {
		list, err := h.Articles.List(ctx, articlestore.Filter{
			Status: models.StatusPublished,
			IDs:    ids,
		}, int64(len(ids)), 0)
		if err != nil {
			h.ErrLog.Internal(w, r, "bookmarks: article fetch failed", err)
			return
		}
		out = orderByBookmark(ids, list)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Articles: out})
}

// orderByBookmark re-sorts the fetched articles into the bookmark order,
// since $in queries return documents in index order.
func orderByBookmark(ids []primitive.ObjectID, list []models.Article) []models.Article {
	byID := make(map[primitive.ObjectID]models.Article, len(list))
	for _, a := range list {
		byID[a.ID] = a
	}
	out := make([]models.Article, 0, len(list))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
