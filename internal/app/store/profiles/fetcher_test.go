package profilestore

import (
	"testing"

	"github.com/viralmotors/platform/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	f := NewFetcher(db)

	u := fx.CreateUser(ctx, "fetch@example.com")
	fx.CreateProfile(ctx, u.ID, "fetcher", u.Email, "editor")

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser returned nil for existing user")
	}
	if !su.HasProfile {
		t.Error("HasProfile = false, want true")
	}
	if su.Username != "fetcher" || su.Role != "editor" {
		t.Errorf("got username=%q role=%q", su.Username, su.Role)
	}
	if su.Email != "fetch@example.com" {
		t.Errorf("email = %q", su.Email)
	}
}

func TestFetchUserWithoutProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	f := NewFetcher(db)

	u := fx.CreateUser(ctx, "bare@example.com")

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser returned nil for existing user")
	}
	if su.HasProfile {
		t.Error("HasProfile = true for user without profile")
	}
	if su.Role != "" {
		t.Errorf("role = %q, want empty", su.Role)
	}
}

func TestFetchUserMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := NewFetcher(db)

	if su := f.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Errorf("FetchUser for missing user = %+v, want nil", su)
	}
	if su := f.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Errorf("FetchUser for malformed id = %+v, want nil", su)
	}
}
