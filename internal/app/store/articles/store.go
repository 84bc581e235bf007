// internal/app/store/articles/store.go
package articlestore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/viralmotors/platform/internal/app/system/content"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/app/system/slugs"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no article matches.
	ErrNotFound = errors.New("article not found")
	// ErrDuplicateSlug is returned when another article already owns the slug.
	ErrDuplicateSlug = errors.New("an article with this slug already exists")
	// ErrMissingFields is returned when title or content is empty.
	ErrMissingFields = errors.New("title and content are required")
	// ErrNotDraft is returned when publishing an article that isn't a draft.
	ErrNotDraft = errors.New("only drafts can be published")
)

// Store manages the articles collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("articles")}
}

// Collection exposes the raw collection for transactional callers
// (the like toggle adjusts like_count inside its transaction).
func (s *Store) Collection() *mongo.Collection { return s.c }

// Draft holds the author-supplied fields of an article write. Slug is
// optional: when blank it is derived from the title at creation, and once an
// article has a slug, later title edits never move it.
type Draft struct {
	Title          string
	Slug           string
	Excerpt        string
	Content        string
	CoverImageURL  string
	Category       string
	Tags           []string
	Featured       bool
	SEOTitle       string
	SEODescription string
}

// apply folds a Draft into an Article, computing the derived fields. The
// slug is handled by the caller: Create and UpsertDraft assign one via
// slugFor, Update leaves the stored slug alone.
func (d Draft) apply(a *models.Article) error {
	title := strings.TrimSpace(d.Title)
	body := strings.TrimSpace(d.Content)
	if title == "" || body == "" {
		return ErrMissingFields
	}

	a.Title = title
	a.Excerpt = strings.TrimSpace(d.Excerpt)
	a.Content = content.Sanitize(body)
	a.CoverImageURL = strings.TrimSpace(d.CoverImageURL)
	a.Category = strings.TrimSpace(d.Category)
	a.Tags = normalize.Tags(d.Tags)
	a.Featured = d.Featured

	a.ReadingTime = content.ReadingTime(a.Content)
	a.SEOTitle = content.SEOTitle(d.SEOTitle, title)
	a.SEODescription = content.SEODescription(d.SEODescription, a.Excerpt)
	return nil
}

// slugFor returns the explicit slug when one was supplied, otherwise a slug
// derived from the title. Empty means neither produced usable characters.
func (d Draft) slugFor() string {
	if s := slugs.Make(d.Slug); s != "" {
		return s
	}
	return slugs.Make(d.Title)
}

// Create inserts a new article for the given author. When publish is true
// the article goes straight to published with published_at stamped now
// (the editor's quick-publish path); otherwise it is created as a draft.
func (s *Store) Create(ctx context.Context, authorID primitive.ObjectID, authorName string, d Draft, publish bool) (models.Article, error) {
	var a models.Article
	if err := d.apply(&a); err != nil {
		return models.Article{}, err
	}
	a.Slug = d.slugFor()
	if a.Slug == "" {
		return models.Article{}, ErrMissingFields
	}

	now := time.Now()
	a.ID = primitive.NewObjectID()
	a.AuthorID = authorID
	a.AuthorName = authorName
	a.Status = models.StatusDraft
	a.CreatedAt = now
	a.UpdatedAt = now
	if publish {
		a.Status = models.StatusPublished
		a.PublishedAt = &now
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Article{}, ErrDuplicateSlug
		}
		return models.Article{}, err
	}
	return a, nil
}

// GetByID loads an article regardless of status.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetBySlugPublished loads a published article by slug. Drafts and archived
// articles are invisible on the public site.
func (s *Store) GetBySlugPublished(ctx context.Context, slug string) (*models.Article, error) {
	var a models.Article
	err := s.c.FindOne(ctx, bson.M{
		"slug":   slug,
		"status": models.StatusPublished,
	}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Filter narrows a List query. Zero values mean "don't filter".
type Filter struct {
	Status   string
	Category string
	Tag      string
	Featured *bool
	AuthorID primitive.ObjectID
	IDs      []primitive.ObjectID
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Tag != "" {
		q["tags"] = f.Tag
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	if !f.AuthorID.IsZero() {
		q["author_id"] = f.AuthorID
	}
	if f.IDs != nil {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	return q
}

// List returns articles matching the filter. Published lists sort newest
// publication first; everything else (admin/any-status) sorts by most
// recently updated.
func (s *Store) List(ctx context.Context, f Filter, limit, offset int64) ([]models.Article, error) {
	sort := bson.D{{Key: "updated_at", Value: -1}}
	if f.Status == models.StatusPublished {
		sort = bson.D{{Key: "published_at", Value: -1}}
	}

	opts := options.Find().SetSort(sort).SetLimit(limit).SetSkip(offset)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Article
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the author-supplied fields of an existing article,
// recomputing derived fields. Status and counters are untouched, and so is
// the slug: once an article has a URL, retitling never breaks it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d Draft) error {
	var a models.Article
	if err := d.apply(&a); err != nil {
		return err
	}

	set := bson.M{
		"title":           a.Title,
		"excerpt":         a.Excerpt,
		"content":         a.Content,
		"cover_image_url": a.CoverImageURL,
		"category":        a.Category,
		"tags":            a.Tags,
		"featured":        a.Featured,
		"reading_time":    a.ReadingTime,
		"seo_title":       a.SEOTitle,
		"seo_description": a.SEODescription,
		"updated_at":      time.Now(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertDraft is the autosave write: it upserts a draft keyed by
// (author_id, slug), so repeated saves of the same piece coalesce into one
// document instead of creating a new draft per keystroke. Only drafts are
// touched; an autosave can never overwrite a published article.
func (s *Store) UpsertDraft(ctx context.Context, authorID primitive.ObjectID, authorName string, d Draft) (models.Article, error) {
	var a models.Article
	if err := d.apply(&a); err != nil {
		return models.Article{}, err
	}
	slug := d.slugFor()
	if slug == "" {
		return models.Article{}, ErrMissingFields
	}

	now := time.Now()
	filter := bson.M{
		"author_id": authorID,
		"slug":      slug,
		"status":    models.StatusDraft,
	}
	update := bson.M{
		"$set": bson.M{
			"title":           a.Title,
			"excerpt":         a.Excerpt,
			"content":         a.Content,
			"cover_image_url": a.CoverImageURL,
			"category":        a.Category,
			"tags":            a.Tags,
			"featured":        a.Featured,
			"reading_time":    a.ReadingTime,
			"seo_title":       a.SEOTitle,
			"seo_description": a.SEODescription,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"slug":          slug,
			"status":        models.StatusDraft,
			"author_id":     authorID,
			"author_name":   authorName,
			"view_count":    int64(0),
			"like_count":    int64(0),
			"comment_count": int64(0),
			"created_at":    now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Article
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		if wafflemongo.IsDup(err) {
			// The slug exists on a non-draft (or another author's) article.
			return models.Article{}, ErrDuplicateSlug
		}
		return models.Article{}, err
	}
	return saved, nil
}

// Publish transitions a draft to published. published_at is set exactly
// once via $ifNull, so re-publishing a previously published document never
// moves its place in the feed.
func (s *Store) Publish(ctx context.Context, id primitive.ObjectID) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != models.StatusDraft {
		return ErrNotDraft
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return ErrMissingFields
	}

	now := time.Now()
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status":       models.StatusPublished,
			"updated_at":   now,
			"published_at": bson.M{"$ifNull": bson.A{"$published_at", now}},
		}}},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "status": models.StatusDraft}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Lost a race with another publish/archive.
		return ErrNotDraft
	}
	return nil
}

// Archive hides a published article from the public site. published_at is
// preserved so restoring keeps the original ordering.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter. Callers fire this without awaiting
// strong guarantees; a lost increment under pathological failure is
// acceptable, a blocking read path is not.
func (s *Store) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// Stats summarizes the collection for the admin dashboard.
type Stats struct {
	Drafts     int64 `json:"drafts"`
	Published  int64 `json:"published"`
	Archived   int64 `json:"archived"`
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

// CollectStats aggregates per-status counts and engagement totals.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"views": bson.M{"$sum": "$view_count"},
			"likes": bson.M{"$sum": "$like_count"},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)

	var st Stats
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
			Views int64  `bson:"views"`
			Likes int64  `bson:"likes"`
		}
		if err := cur.Decode(&row); err != nil {
			return Stats{}, err
		}
		switch row.ID {
		case models.StatusDraft:
			st.Drafts = row.Count
		case models.StatusPublished:
			st.Published = row.Count
		case models.StatusArchived:
			st.Archived = row.Count
		}
		st.TotalViews += row.Views
		st.TotalLikes += row.Likes
	}
	return st, cur.Err()
}
