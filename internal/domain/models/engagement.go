// internal/domain/models/engagement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records that a user liked an article (or, via TargetType, a comment).
// Uniqueness of (user_id, article_id) is enforced by an index, which is what
// makes the toggle race-safe.
type Like struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	ArticleID  primitive.ObjectID `bson:"article_id" json:"article_id"`
	TargetType string             `bson:"target_type" json:"target_type"` // article | comment
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Bookmark records that a user saved an article to read later.
type Bookmark struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ArticleID primitive.ObjectID `bson:"article_id" json:"article_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
