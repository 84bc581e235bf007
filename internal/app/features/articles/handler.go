// internal/app/features/articles/handler.go
package articles

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
	"github.com/viralmotors/platform/internal/app/system/auditlog"
	"github.com/viralmotors/platform/internal/app/system/gates"
	"github.com/viralmotors/platform/internal/app/system/paging"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves article reading and authoring.
type Handler struct {
	Articles *articlestore.Store
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Articles: articlestore.New(db),
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

type articlePayload struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	CoverImageURL  string   `json:"cover_image_url"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Featured       bool     `json:"featured"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
}

func (p articlePayload) draft() articlestore.Draft {
	return articlestore.Draft{
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		CoverImageURL:  p.CoverImageURL,
		Category:       p.Category,
		Tags:           p.Tags,
		Featured:       p.Featured,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
	}
}

type listResponse struct {
	Articles []models.Article `json:"articles"`
	Limit    int64            `json:"limit"`
	Offset   int64            `json:"offset"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| Public reads                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList handles GET /articles: published articles, newest publication
// first, filterable by category, tag, and featured.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := articlestore.Filter{
		Status:   models.StatusPublished,
		Category: strings.TrimSpace(query.Get(r, "category")),
		Tag:      strings.ToLower(strings.TrimSpace(query.Get(r, "tag"))),
	}
	switch query.Get(r, "featured") {
	case "true":
		t := true
		f.Featured = &t
	case "false":
		t := false
		f.Featured = &t
	}

	limit, offset := paging.ParseLimitOffset(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Articles.List(ctx, f, limit, offset)
	if err != nil {
		h.ErrLog.Internal(w, r, "articles: list failed", err)
		return
	}
	if list == nil {
		list = []models.Article{}
	}

	writeJSON(w, http.StatusOK, listResponse{Articles: list, Limit: limit, Offset: offset})
}

// ServeGetBySlug handles GET /articles/{slug}. The view counter bumps in the
// background so the read path never waits on the write.
func (h *Handler) ServeGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.GetBySlugPublished(ctx, slug)
	if err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "article not found")
			return
		}
		h.ErrLog.Internal(w, r, "articles: slug lookup failed", err)
		return
	}

	go func(id primitive.ObjectID) {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		if err := h.Articles.IncrementViews(ctx, id); err != nil {
			h.Log.Warn("view count increment failed",
				zap.Error(err),
				zap.String("article_id", id.Hex()))
		}
	}(a.ID)

	writeJSON(w, http.StatusOK, a)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Authoring                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCreate handles POST /articles. With ?publish=true the article is
// created already published (the composer's "publish now" button); otherwise
// it starts as a draft.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req articlePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	publish := query.Get(r, "publish") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.Create(ctx, res.UserID, res.Username, req.draft(), publish)
	if err != nil {
		h.writeStoreError(w, r, "articles: create failed", err)
		return
	}

	if publish {
		h.AuditLog.ArticlePublished(ctx, r, res.UserID, a.ID)
	}

	writeJSON(w, http.StatusCreated, a)
}

// ServeAutosave handles PUT /articles/autosave: the composer's periodic
// draft save. Repeated saves of the same piece coalesce into one draft.
func (h *Handler) ServeAutosave(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req articlePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.UpsertDraft(ctx, res.UserID, res.Username, req.draft())
	if err != nil {
		h.writeStoreError(w, r, "articles: autosave failed", err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// ServeUpdate handles PUT /articles/{id}: full edit by the author or a
// moderator.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadByIDParam(w, r)
	if !ok {
		return
	}

	res := gates.RequireArticleAccess(w, r, a.AuthorID)
	if !res.OK {
		return
	}

	var req articlePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uierrors.WriteValidation(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Articles.Update(ctx, a.ID, req.draft()); err != nil {
		h.writeStoreError(w, r, "articles: update failed", err)
		return
	}

	updated, err := h.Articles.GetByID(ctx, a.ID)
	if err != nil {
		h.ErrLog.Internal(w, r, "articles: reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ServePublish handles POST /articles/{id}/publish.
func (h *Handler) ServePublish(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadByIDParam(w, r)
	if !ok {
		return
	}

	res := gates.RequireArticleAccess(w, r, a.AuthorID)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Articles.Publish(ctx, a.ID); err != nil {
		switch {
		case errors.Is(err, articlestore.ErrNotDraft):
			uierrors.WriteConflict(w, "only drafts can be published")
		case errors.Is(err, articlestore.ErrMissingFields):
			uierrors.WriteValidation(w, "title and content are required to publish")
		case errors.Is(err, articlestore.ErrNotFound):
			uierrors.WriteNotFound(w, "article not found")
		default:
			h.ErrLog.Internal(w, r, "articles: publish failed", err)
		}
		return
	}

	h.AuditLog.ArticlePublished(ctx, r, res.UserID, a.ID)

	published, err := h.Articles.GetByID(ctx, a.ID)
	if err != nil {
		h.ErrLog.Internal(w, r, "articles: reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, published)
}

// ServeArchive handles POST /articles/{id}/archive. Archiving is a
// moderation action, so authors cannot archive their own work.
func (h *Handler) ServeArchive(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireModerator(w, r, "archiving requires the editor or admin role")
	if !res.OK {
		return
	}

	a, ok := h.loadByIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Articles.Archive(ctx, a.ID); err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "article not found")
			return
		}
		h.ErrLog.Internal(w, r, "articles: archive failed", err)
		return
	}

	h.AuditLog.ArticleArchived(ctx, r, res.UserID, a.ID)

	archived, err := h.Articles.GetByID(ctx, a.ID)
	if err != nil {
		h.ErrLog.Internal(w, r, "articles: reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// loadByIDParam parses the {id} URL parameter and loads the article,
// writing the error envelope on failure.
func (h *Handler) loadByIDParam(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteValidation(w, "invalid article id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			uierrors.WriteNotFound(w, "article not found")
			return nil, false
		}
		h.ErrLog.Internal(w, r, "articles: lookup failed", err)
		return nil, false
	}
	return a, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, articlestore.ErrMissingFields):
		uierrors.WriteValidation(w, "title and content are required")
	case errors.Is(err, articlestore.ErrDuplicateSlug):
		uierrors.WriteConflict(w, "an article with this title already exists")
	case errors.Is(err, articlestore.ErrNotFound):
		uierrors.WriteNotFound(w, "article not found")
	default:
		h.ErrLog.Internal(w, r, msg, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
