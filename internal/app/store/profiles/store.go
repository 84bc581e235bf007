// internal/app/store/profiles/store.go
package profilestore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/viralmotors/platform/internal/app/system/authz"
	"github.com/viralmotors/platform/internal/app/system/normalize"
	"github.com/viralmotors/platform/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no profile matches the query.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateUsername is returned when the requested username is taken.
	ErrDuplicateUsername = errors.New("this username is already taken")

	errBadRole = errors.New(`role must be "user"|"editor"|"admin"`)
)

// Store manages the profiles collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// GetByUserID loads the profile attached to a user identity.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByID loads a profile by its own ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateDefault creates the lazy first-sign-in profile: username defaults to
// the email local part, role defaults to "user". If the local part is taken,
// a suffix derived from the user ID makes it unique.
func (s *Store) CreateDefault(ctx context.Context, userID primitive.ObjectID, email string) (models.Profile, error) {
	email = normalize.Email(email)
	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	p, err := s.create(ctx, userID, email, username)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrDuplicateUsername) {
		return models.Profile{}, err
	}

	// Username collision: retry once with a stable suffix.
	return s.create(ctx, userID, email, username+"-"+userID.Hex()[18:])
}

func (s *Store) create(ctx context.Context, userID primitive.ObjectID, email, username string) (models.Profile, error) {
	now := time.Now()
	p := models.Profile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Username:   normalize.Username(username),
		UsernameCI: text.Fold(username),
		Email:      email,
		Role:       authz.RoleUser,

		EmailNotifications: true,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateUsername
		}
		return models.Profile{}, err
	}
	return p, nil
}

// ProfileUpdate holds the fields a user may edit on their own profile.
type ProfileUpdate struct {
	Username  string
	FullName  string
	AvatarURL string
	Bio       string
	Website   string
	Location  string
}

// Update edits a user's own profile fields.
// Returns ErrDuplicateUsername if the new username belongs to someone else.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{
		"username":    normalize.Username(upd.Username),
		"username_ci": text.Fold(upd.Username),
		"full_name":   normalize.Name(upd.FullName),
		"avatar_url":  strings.TrimSpace(upd.AvatarURL),
		"bio":         strings.TrimSpace(upd.Bio),
		"website":     strings.TrimSpace(upd.Website),
		"location":    strings.TrimSpace(upd.Location),
		"updated_at":  time.Now(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SettingsUpdate holds the notification preference fields.
type SettingsUpdate struct {
	EmailNotifications bool
	NewsletterOptIn    bool
}

// UpdateSettings writes the preference fields only.
func (s *Store) UpdateSettings(ctx context.Context, userID primitive.ObjectID, upd SettingsUpdate) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"email_notifications": upd.EmailNotifications,
		"newsletter_opt_in":   upd.NewsletterOptIn,
		"updated_at":          time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole assigns a role to a profile. Used by the admin console.
func (s *Store) SetRole(ctx context.Context, profileID primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if !authz.ValidRole(role) {
		return errBadRole
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": profileID}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteAdminByEmail promotes the profile with the given email to admin.
// Used by the startup admin bootstrap.
func (s *Store) PromoteAdminByEmail(ctx context.Context, email string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"role": authz.RoleAdmin, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns profiles newest-first, capped at limit. Used by the admin
// console's user management page.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Profile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
