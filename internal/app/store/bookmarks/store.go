// internal/app/store/bookmarks/store.go
package bookmarkstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the bookmarks collection. Unlike likes, bookmarks carry no
// counter on the article, so the toggle is a plain insert-or-delete against
// the unique (user_id, article_id) index.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookmarks")}
}

// Toggle flips the user's bookmark and returns the new state
// (true = now bookmarked).
func (s *Store) Toggle(ctx context.Context, userID, articleID primitive.ObjectID) (bool, error) {
	b := models.Bookmark{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ArticleID: articleID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.c.InsertOne(ctx, b)
	if err == nil {
		return true, nil
	}
	if !wafflemongo.IsDup(err) {
		return false, err
	}

	res, derr := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "article_id": articleID})
	if derr != nil {
		return false, derr
	}
	if res.DeletedCount == 0 {
		// Raced with a concurrent unbookmark; treat as now-bookmarked by
		// retrying the insert once.
		_, ierr := s.c.InsertOne(ctx, b)
		if ierr == nil {
			return true, nil
		}
		return false, ierr
	}
	return false, nil
}

// IsBookmarked reports whether the user has bookmarked the article.
func (s *Store) IsBookmarked(ctx context.Context, userID, articleID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "article_id": articleID}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// ListArticleIDs returns the user's bookmarked article IDs, newest first.
func (s *Store) ListArticleIDs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Bookmark
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, b := range rows {
		ids = append(ids, b.ArticleID)
	}
	return ids, nil
}
