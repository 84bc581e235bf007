// internal/app/store/likes/store.go
package likestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/viralmotors/platform/internal/app/system/txn"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store manages the likes collection and the denormalized like_count on
// articles. The two writes travel together in a transaction where the
// deployment supports one; either way the unique (user_id, article_id)
// index is what makes the toggle race-safe.
type Store struct {
	client   *mongo.Client
	likes    *mongo.Collection
	articles *mongo.Collection
}

func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		likes:    db.Collection("likes"),
		articles: db.Collection("articles"),
	}
}

// errRaced signals that a concurrent toggle changed the row between the read
// and the write; the caller re-runs the decision.
var errRaced = errors.New("like toggle raced with a concurrent toggle")

// Toggle flips the user's like on an article and returns the new state
// (true = now liked). The decision reads the current row first; if a
// concurrent toggle of the same pair wins the race mid-flight, the operation
// re-runs the decision once against the settled state.
func (s *Store) Toggle(ctx context.Context, userID, articleID primitive.ObjectID) (liked bool, err error) {
	liked, err = s.toggleOnce(ctx, userID, articleID)
	if err != nil && (wafflemongo.IsDup(err) || errors.Is(err, errRaced)) {
		liked, err = s.toggleOnce(ctx, userID, articleID)
	}
	return liked, err
}

func (s *Store) toggleOnce(ctx context.Context, userID, articleID primitive.ObjectID) (bool, error) {
	var liked bool
	err := txn.WithTransaction(ctx, s.client, func(ctx context.Context) error {
		filter := bson.M{"user_id": userID, "article_id": articleID}

		// Decide by reading first. The unlike path must not hinge on
		// catching a duplicate-key insert: a write error inside a
		// server-side transaction aborts it, and every later operation in
		// the same transaction fails with NoSuchTransaction.
		ferr := s.likes.FindOne(ctx, filter).Err()
		switch {
		case ferr == nil:
			res, err := s.likes.DeleteOne(ctx, filter)
			if err != nil {
				return err
			}
			if res.DeletedCount == 0 {
				return errRaced
			}
			liked = false
			return s.adjustCount(ctx, articleID, -1)

		case errors.Is(ferr, mongo.ErrNoDocuments):
			like := models.Like{
				ID:         primitive.NewObjectID(),
				UserID:     userID,
				ArticleID:  articleID,
				TargetType: "article",
				CreatedAt:  time.Now().UTC(),
			}
			// The unique (user_id, article_id) index turns a concurrent
			// like into a duplicate error, surfaced to Toggle's retry.
			if _, err := s.likes.InsertOne(ctx, like); err != nil {
				return err
			}
			liked = true
			return s.adjustCount(ctx, articleID, 1)

		default:
			return ferr
		}
	})
	return liked, err
}

func (s *Store) adjustCount(ctx context.Context, articleID primitive.ObjectID, delta int) error {
	_, err := s.articles.UpdateOne(ctx,
		bson.M{"_id": articleID},
		bson.M{"$inc": bson.M{"like_count": delta}},
	)
	return err
}

// IsLiked reports whether the user currently likes the article.
func (s *Store) IsLiked(ctx context.Context, userID, articleID primitive.ObjectID) (bool, error) {
	err := s.likes.FindOne(ctx, bson.M{"user_id": userID, "article_id": articleID}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}
