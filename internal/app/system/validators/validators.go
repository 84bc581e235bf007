// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("profiles", profilesSchema())
	ensure("articles", articlesSchema())
	ensure("newsletter_subscribers", newsletterSchema())

	// These don't strictly need validators; we still ensure the collections exist.
	ensure("likes", nil)
	ensure("bookmarks", nil)
	ensure("oauth_states", nil)
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			return nil
		}
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, coll string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: coll},
		{Key: "validator", Value: bson.M{"$jsonSchema": schema}},
		{Key: "validationLevel", Value: "moderate"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	return strings.Contains(err.Error(), "NamespaceExists") ||
		strings.Contains(err.Error(), "already exists")
}

func isNoSuchCommand(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 59 {
		return true
	}
	return strings.Contains(err.Error(), "no such command")
}

func isNotImplemented(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not implemented") ||
		strings.Contains(strings.ToLower(err.Error()), "not supported")
}

/* ------------------------------ schemas ----------------------------------- */

func usersSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"email", "email_ci", "auth_method"},
		"properties": bson.M{
			"email":       bson.M{"bsonType": "string"},
			"email_ci":    bson.M{"bsonType": "string"},
			"auth_method": bson.M{"enum": []string{"password", "google"}},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"user_id", "username", "username_ci", "role"},
		"properties": bson.M{
			"user_id":     bson.M{"bsonType": "objectId"},
			"username":    bson.M{"bsonType": "string"},
			"username_ci": bson.M{"bsonType": "string"},
			"role":        bson.M{"enum": []string{"user", "editor", "admin"}},
		},
	}
}

func articlesSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"title", "slug", "content", "status", "author_id"},
		"properties": bson.M{
			"title":     bson.M{"bsonType": "string"},
			"slug":      bson.M{"bsonType": "string"},
			"status":    bson.M{"enum": []string{"draft", "published", "archived"}},
			"author_id": bson.M{"bsonType": "objectId"},
			"view_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
		},
	}
}

func newsletterSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"email", "subscribed"},
		"properties": bson.M{
			"email":      bson.M{"bsonType": "string"},
			"subscribed": bson.M{"bsonType": "bool"},
		},
	}
}
