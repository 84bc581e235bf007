// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Event types recorded by the site.
const (
	TypeSignIn           = "sign_in"
	TypeSignUp           = "sign_up"
	TypeArticlePublished = "article_published"
	TypeArticleArchived  = "article_archived"
	TypeRoleChanged      = "role_changed"
)

// Event is one audit record.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Category  string              `bson:"category" json:"category"`
	EventType string              `bson:"event_type" json:"event_type"`
	Success   bool                `bson:"success" json:"success"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`     // who did it
	SubjectID *primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"` // what/whom it was done to
	IP        string              `bson:"ip,omitempty" json:"ip,omitempty"`
	Details   map[string]string   `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// Store persists audit events.
type Store struct {
	c *mongo.Collection
}

// New creates an audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Insert writes one event. CreatedAt is stamped here.
func (s *Store) Insert(ctx context.Context, ev Event) error {
	ev.ID = primitive.NewObjectID()
	ev.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// Recent returns the newest events, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
