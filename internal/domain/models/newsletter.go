// internal/domain/models/newsletter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsletterSubscriber is an email signup. Re-subscribing an existing email
// updates interests and flips subscribed back to true rather than creating a
// second row.
type NewsletterSubscriber struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email            string             `bson:"email" json:"email"`
	Interests        []string           `bson:"interests,omitempty" json:"interests,omitempty"`
	Subscribed       bool               `bson:"subscribed" json:"subscribed"`
	UnsubscribeToken string             `bson:"unsubscribe_token" json:"-"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
