// internal/domain/models/article.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article statuses. An article moves draft -> published -> archived; archived
// articles keep their published_at so restoring them preserves ordering.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Article is a published or draft piece of content.
//
// NOTE:
//   - published_at is set exactly once, at first publish. Re-publishing an
//     archived article does not move it.
//   - like_count and view_count are denormalized counters maintained by the
//     likes store and the view increment; they are never recomputed from rows.
type Article struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content       string             `bson:"content" json:"content"`
	CoverImageURL string             `bson:"cover_image_url,omitempty" json:"cover_image_url,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Status        string             `bson:"status" json:"status"` // draft | published | archived
	Featured      bool               `bson:"featured" json:"featured"`

	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name,omitempty" json:"author_name,omitempty"`

	ViewCount    int64 `bson:"view_count" json:"view_count"`
	LikeCount    int64 `bson:"like_count" json:"like_count"`
	CommentCount int64 `bson:"comment_count" json:"comment_count"`

	// Derived presentation fields, recomputed on every content write.
	ReadingTime    int    `bson:"reading_time" json:"reading_time"` // minutes
	SEOTitle       string `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SEODescription string `bson:"seo_description,omitempty" json:"seo_description,omitempty"`

	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
