package userstore

import (
	"errors"
	"testing"

	"github.com/viralmotors/platform/internal/app/system/indexes"
	"github.com/viralmotors/platform/internal/domain/models"
	"github.com/viralmotors/platform/internal/testutil"
)

func TestCreateAndGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := New(db)

	hash := "$2a$10$testtesttesttesttesttesttesttesttesttesttesttesttestte"
	u, err := store.Create(ctx, models.User{
		Email:        "Driver@Example.COM",
		PasswordHash: &hash,
		AuthMethod:   "password",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "driver@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}

	// Lookup is case-insensitive.
	got, err := store.GetByEmail(ctx, "DRIVER@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByEmail returned wrong user: %s != %s", got.ID.Hex(), u.ID.Hex())
	}

	got, err = store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "driver@example.com" {
		t.Errorf("GetByID email = %q", got.Email)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	store := New(db)

	hash := "$2a$10$testtesttesttesttesttesttesttesttesttesttesttesttestte"
	if _, err := store.Create(ctx, models.User{
		Email: "dup@example.com", PasswordHash: &hash, AuthMethod: "password",
	}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same email in different case still collides on email_ci.
	_, err := store.Create(ctx, models.User{
		Email: "DUP@example.com", PasswordHash: &hash, AuthMethod: "password",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := New(db)

	if _, err := store.Create(ctx, models.User{
		Email: "a@example.com", AuthMethod: "magic-link",
	}); err == nil {
		t.Error("want error for unknown auth method")
	}

	// Password auth requires a hash.
	if _, err := store.Create(ctx, models.User{
		Email: "b@example.com", AuthMethod: "password",
	}); err == nil {
		t.Error("want error for password auth without hash")
	}

	// Google auth does not.
	if _, err := store.Create(ctx, models.User{
		Email: "c@example.com", AuthMethod: "google",
	}); err != nil {
		t.Errorf("google auth without hash: %v", err)
	}
}
