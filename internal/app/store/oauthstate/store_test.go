package oauthstate

import (
	"testing"
	"time"

	"github.com/viralmotors/platform/internal/testutil"
)

func TestValidateIsOneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	expires := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-abc", "/articles/ev-review", expires); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, valid, err := store.Validate(ctx, "state-abc")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !valid {
		t.Fatal("fresh state reported invalid")
	}
	if path != "/articles/ev-review" {
		t.Errorf("return path = %q", path)
	}

	// Second use fails: the token was consumed.
	_, valid, err = store.Validate(ctx, "state-abc")
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if valid {
		t.Error("state token replayable")
	}
}

func TestValidateExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	if err := store.Save(ctx, "state-old", "/", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, valid, err := store.Validate(ctx, "state-old")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("expired state accepted")
	}
}

func TestValidateUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	_, valid, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("unknown state accepted")
	}
}
