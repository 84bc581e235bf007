// internal/app/store/profiles/fetcher.go
package profilestore

import (
	"context"

	"github.com/viralmotors/platform/internal/app/system/auth"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/app/system/timeouts"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each
// request. It joins the user identity with its profile so role changes take
// effect immediately without re-issuing sessions.
type Fetcher struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users:    db.Collection("users"),
		profiles: db.Collection("profiles"),
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found
// or any error occurs. A user without a profile is still returned (with
// HasProfile=false) so the admin guard can send them to profile creation.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	userProj := options.FindOne().SetProjection(bson.M{"_id": 1, "email": 1})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, userProj).Decode(&u); err != nil {
		return nil
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Email: u.Email,
	}

	var p models.Profile
	profProj := options.FindOne().SetProjection(bson.M{"username": 1, "role": 1})
	if err := f.profiles.FindOne(ctx, bson.M{"user_id": oid}, profProj).Decode(&p); err == nil {
		su.HasProfile = true
		su.Username = p.Username
		su.Role = normalize.Role(p.Role)
	}
	// Profile fetch failure (or absence) leaves HasProfile=false.

	return su
}
