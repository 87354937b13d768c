package store

import (
	"testing"

	"github.com/google/uuid"

	"statbank/internal/models"
)

func TestUserStoreCreateAndAuth(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-" + uuid.NewString()[:8] + "@statbank.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	created, err := s.Create(email, "s3cret", "Test Editor", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.PasswordHash == "s3cret" {
		t.Error("password must be stored hashed")
	}

	found, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil {
		t.Fatal("expected user, got nil")
	}
	if found.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", found.Role, models.RoleEditor)
	}

	if !s.CheckPassword(found, "s3cret") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(found, "wrong") {
		t.Error("wrong password accepted")
	}

	// Not found.
	missing, _ := s.FindByEmail("nobody@statbank.local")
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "del-" + uuid.NewString()[:8] + "@statbank.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	created, err := s.Create(email, "pw", "Doomed", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ := s.FindByID(created.ID)
	if found != nil {
		t.Error("user survived delete")
	}
}
