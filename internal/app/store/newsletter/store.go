// internal/app/store/newsletter/store.go
package newsletterstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTokenNotFound is returned when an unsubscribe token matches no subscriber.
var ErrTokenNotFound = errors.New("unsubscribe token not found")

// Store manages the newsletter_subscribers collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("newsletter_subscribers")}
}

// Subscribe upserts a signup keyed by email. A brand-new email gets a row
// with a fresh unsubscribe token; an existing email has its interests
// replaced and subscribed flipped back to true. Either way the call is
// idempotent: double submits collapse into one subscribed row.
func (s *Store) Subscribe(ctx context.Context, email string, interests []string) (models.NewsletterSubscriber, error) {
	email = normalize.Email(email)
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"interests":  interests,
			"subscribed": true,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"email":             email,
			"unsubscribe_token": uuid.NewString(),
			"created_at":        now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var sub models.NewsletterSubscriber
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&sub); err != nil {
		return models.NewsletterSubscriber{}, err
	}
	return sub, nil
}

// Unsubscribe flips subscribed off for the row owning the token. The row is
// kept so a later re-subscribe reuses it.
func (s *Store) Unsubscribe(ctx context.Context, token string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"unsubscribe_token": token},
		bson.M{"$set": bson.M{"subscribed": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// GetByEmail loads a subscriber row. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountSubscribed returns the number of active subscribers (admin stats).
func (s *Store) CountSubscribed(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"subscribed": true})
}
