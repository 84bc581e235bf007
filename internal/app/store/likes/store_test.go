package likestore

import (
	"testing"
	"time"

	"github.com/viralmotors/platform/internal/app/system/indexes"
	"github.com/viralmotors/platform/internal/domain/models"
	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*Store, *mongo.Database, primitive.ObjectID) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	fx := testutil.NewFixtures(t, db)
	a := fx.CreateArticle(ctx, primitive.NewObjectID(), "Likeable Article", "published")
	return New(db.Client(), db), db, a.ID
}

func likeCount(t *testing.T, db *mongo.Database, articleID primitive.ObjectID) int64 {
	t.Helper()
	ctx := testutil.TestContext(t)
	var a struct {
		LikeCount int64 `bson:"like_count"`
	}
	if err := db.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&a); err != nil {
		t.Fatalf("load article: %v", err)
	}
	return a.LikeCount
}

func TestToggle(t *testing.T) {
	store, db, articleID := setup(t)
	ctx := testutil.TestContext(t)
	userID := primitive.NewObjectID()

	liked, err := store.Toggle(ctx, userID, articleID)
	if err != nil {
		t.Fatalf("first Toggle: %v", err)
	}
	if !liked {
		t.Error("first toggle should like")
	}
	if n := likeCount(t, db, articleID); n != 1 {
		t.Errorf("like_count = %d, want 1", n)
	}

	is, err := store.IsLiked(ctx, userID, articleID)
	if err != nil || !is {
		t.Errorf("IsLiked = %v, %v; want true", is, err)
	}

	liked, err = store.Toggle(ctx, userID, articleID)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if liked {
		t.Error("second toggle should unlike")
	}
	if n := likeCount(t, db, articleID); n != 0 {
		t.Errorf("like_count after unlike = %d, want 0", n)
	}

	is, err = store.IsLiked(ctx, userID, articleID)
	if err != nil || is {
		t.Errorf("IsLiked after unlike = %v, %v; want false", is, err)
	}
}

// The unlike decision must come from reading the row, not from catching a
// duplicate insert: a write error inside a server-side transaction aborts
// it, taking any follow-up delete down with it.
func TestToggleUnlikesExistingRow(t *testing.T) {
	store, db, articleID := setup(t)
	ctx := testutil.TestContext(t)
	userID := primitive.NewObjectID()

	like := models.Like{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		ArticleID:  articleID,
		TargetType: "article",
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := db.Collection("likes").InsertOne(ctx, like); err != nil {
		t.Fatalf("seed like: %v", err)
	}
	if _, err := db.Collection("articles").UpdateOne(ctx,
		bson.M{"_id": articleID},
		bson.M{"$inc": bson.M{"like_count": 1}},
	); err != nil {
		t.Fatalf("seed count: %v", err)
	}

	liked, err := store.Toggle(ctx, userID, articleID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if liked {
		t.Error("toggle on an existing like should unlike")
	}
	if n := likeCount(t, db, articleID); n != 0 {
		t.Errorf("like_count = %d, want 0", n)
	}
	if is, _ := store.IsLiked(ctx, userID, articleID); is {
		t.Error("like row survived the toggle")
	}
}

func TestToggleTwoUsers(t *testing.T) {
	store, db, articleID := setup(t)
	ctx := testutil.TestContext(t)

	u1 := primitive.NewObjectID()
	u2 := primitive.NewObjectID()

	if _, err := store.Toggle(ctx, u1, articleID); err != nil {
		t.Fatalf("Toggle u1: %v", err)
	}
	if _, err := store.Toggle(ctx, u2, articleID); err != nil {
		t.Fatalf("Toggle u2: %v", err)
	}
	if n := likeCount(t, db, articleID); n != 2 {
		t.Errorf("like_count = %d, want 2", n)
	}

	// One user unliking doesn't touch the other.
	if _, err := store.Toggle(ctx, u1, articleID); err != nil {
		t.Fatalf("Toggle u1 again: %v", err)
	}
	if n := likeCount(t, db, articleID); n != 1 {
		t.Errorf("like_count = %d, want 1", n)
	}
	if is, _ := store.IsLiked(ctx, u2, articleID); !is {
		t.Error("u2's like lost")
	}
}
