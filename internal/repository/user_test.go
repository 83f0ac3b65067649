package repository

import (
	"context"
	"errors"
	"testing"

	"glimpse/internal/database"
	"glimpse/internal/models"

	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func TestUserRepositoryCreateNormalizesEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Email: "  Ada.Lovelace@Example.COM ", Password: "hashed"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Email != "ada.lovelace@example.com" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first := &models.User{Email: "dup@example.com", Password: "hashed"}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second := &models.User{Email: "DUP@example.com", Password: "hashed"}
	err := repo.Create(context.Background(), second)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeConflict {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestUserRepositoryGetByEmailCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "casey@example.com")

	got, err := repo.GetByEmail(context.Background(), "  CASEY@Example.com ")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.Email != "casey@example.com" {
		t.Fatalf("expected user, got %#v", got)
	}
}

func TestUserRepositoryGetByEmailMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected no error for missing user, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil user, got %#v", got)
	}
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}
