package store

import (
	"context"
	"testing"

	"github.com/dukerupert/familyhub/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	prefs := model.UserPreferences{Cuisines: []string{"Italian"}, Dietary: []string{"Vegetarian"}}
	u, err := us.Create(ctx, "sarah_johnson", "hunter2", model.RoleParent, "Sarah Johnson", "https://example.com/a.png", prefs)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Username != "sarah_johnson" {
		t.Errorf("username = %q, want %q", u.Username, "sarah_johnson")
	}
	if u.Role != model.RoleParent {
		t.Errorf("role = %q, want %q", u.Role, model.RoleParent)
	}
	if len(u.Preferences.Cuisines) != 1 || u.Preferences.Cuisines[0] != "Italian" {
		t.Errorf("cuisines = %v, want [Italian]", u.Preferences.Cuisines)
	}
	if len(u.Preferences.Dietary) != 1 || u.Preferences.Dietary[0] != "Vegetarian" {
		t.Errorf("dietary = %v, want [Vegetarian]", u.Preferences.Dietary)
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "mike", "pw", model.RoleCook, "Mike", "", model.UserPreferences{}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "mike", "pw", model.RoleCook, "Other Mike", "", model.UserPreferences{}); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserListAndCount(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ctx := context.Background()

	createTestUser(t, db, "a")
	createTestUser(t, db, "b")

	users, err := us.List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "a" || users[1].Username != "b" {
		t.Errorf("unexpected order: %q, %q", users[0].Username, users[1].Username)
	}

	n, err := us.Count(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestUserUpdatePreferences(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	u := createTestUser(t, db, "emma")

	updated, err := us.UpdatePreferences(context.Background(), u.ID, model.UserPreferences{Cuisines: []string{"Mexican"}})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if len(updated.Preferences.Cuisines) != 1 || updated.Preferences.Cuisines[0] != "Mexican" {
		t.Errorf("cuisines = %v, want [Mexican]", updated.Preferences.Cuisines)
	}
}

func TestUserPasswordIsHashed(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db, "sarah")

	var hash string
	if err := db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, u.ID).Scan(&hash); err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if hash == "password" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("password")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	want := createTestUser(t, db, "mike_johnson")

	got, err := us.GetByUsername(context.Background(), "mike_johnson")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("got %+v, want id %d", got, want.ID)
	}

	got, err = us.GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown username")
	}
}
