// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the public identity attached to a User. It is created lazily on
// first sign-in, with the username defaulting to the email local part and the
// role defaulting to "user".
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	AvatarURL  string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Website    string             `bson:"website,omitempty" json:"website,omitempty"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	Role       string             `bson:"role" json:"role"` // user | editor | admin

	// Notification preferences (the /settings page).
	EmailNotifications bool `bson:"email_notifications" json:"email_notifications"`
	NewsletterOptIn    bool `bson:"newsletter_opt_in" json:"newsletter_opt_in"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
