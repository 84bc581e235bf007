// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureArticles(ctx, db); err != nil {
		problems = append(problems, "articles: "+err.Error())
	}
	if err := ensureLikes(ctx, db); err != nil {
		problems = append(problems, "likes: "+err.Error())
	}
	if err := ensureBookmarks(ctx, db); err != nil {
		problems = append(problems, "bookmarks: "+err.Error())
	}
	if err := ensureNewsletter(ctx, db); err != nil {
		problems = append(problems, "newsletter_subscribers: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email_ci"),
		},
	})
	return err
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("profiles").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user"),
		},
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username_ci"),
		},
	})
	return err
}

func ensureArticles(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("articles").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Slug uniqueness backs the conflict error on create/autosave.
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_slug"),
		},
		// Published listing: status filter, newest first.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}},
			Options: options.Index().SetName("idx_status_published"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}, {Key: "published_at", Value: -1}},
			Options: options.Index().SetName("idx_status_category"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_author"),
		},
	})
	return err
}

func ensureLikes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("likes").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// The toggle's correctness depends on this unique pair.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "article_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_article"),
		},
		{
			Keys:    bson.D{{Key: "article_id", Value: 1}},
			Options: options.Index().SetName("idx_article"),
		},
	})
	return err
}

func ensureBookmarks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("bookmarks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "article_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_article"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_recent"),
		},
	})
	return err
}

func ensureNewsletter(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("newsletter_subscribers").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "unsubscribe_token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_unsub_token"),
		},
	})
	return err
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("oauth_states").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_state"),
		},
		// TTL index for automatic cleanup of abandoned flows.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_ttl"),
		},
	})
	return err
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("audit_events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_recent"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_actor"),
		},
	})
	return err
}
