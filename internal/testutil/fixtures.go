// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/viralmotors/platform/internal/app/system/slugs"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a password-auth user.
func (f *Fixtures) CreateUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	hash := "$2a$10$fixturefixturefixturefixturefixturefixturefixturefixt"
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: &hash,
		AuthMethod:   "password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProfile creates a profile for the given user with the given role.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, username, email, role string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:                 primitive.NewObjectID(),
		UserID:             userID,
		Username:           username,
		UsernameCI:         text.Fold(username),
		Email:              email,
		Role:               role,
		EmailNotifications: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateArticle creates an article with the given title and status.
// Published articles get published_at stamped.
func (f *Fixtures) CreateArticle(ctx context.Context, authorID primitive.ObjectID, title, status string) models.Article {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Article{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Slug:        slugs.Make(title),
		Content:     "<p>Test content for " + title + "</p>",
		Status:      status,
		AuthorID:    authorID,
		ReadingTime: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.StatusPublished {
		a.PublishedAt = &now
	}
	if _, err := f.db.Collection("articles").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test article: %v", err)
	}
	return a
}
