package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

func createTestUser(t *testing.T, mutate func(*domain.User)) *domain.User {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if mutate != nil {
		mutate(user)
	}

	repo := NewUserRepository(testDB)
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})

	return user
}

func TestUserRepository_PasswordHashIsWriteOnly(t *testing.T) {
	user := createTestUser(t, nil)

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.PasswordHash != "" {
		t.Error("default read leaked the password hash")
	}

	withPassword, err := repo.FindByIDWithPassword(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByIDWithPassword failed: %v", err)
	}
	if withPassword.PasswordHash != user.PasswordHash {
		t.Error("credential lookup did not include the password hash")
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	user := createTestUser(t, nil)

	now := time.Now()
	dup := &domain.User{
		ID:           uuid.New(),
		Name:         "Copycat",
		Email:        user.Email,
		PasswordHash: "hash",
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := NewUserRepository(testDB).Create(context.Background(), dup)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserRepository_FindByEmailWithPasswordNormalizes(t *testing.T) {
	user := createTestUser(t, nil)

	found, err := NewUserRepository(testDB).FindByEmailWithPassword(
		context.Background(), "  "+toUpper(user.Email)+"  ")
	if err != nil {
		t.Fatalf("FindByEmailWithPassword failed: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("wrong user returned: %s", found.ID)
	}
	if found.PasswordHash == "" {
		t.Error("credential lookup missing password hash")
	}
}

func toUpper(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
	}
	return string(out)
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	user := createTestUser(t, nil)

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	if err := repo.TouchLastLogin(ctx, user.ID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.LastLogin == nil {
		t.Error("lastLogin was not stamped")
	}
}

func TestUserRepository_ListSearchAndFilter(t *testing.T) {
	needle := uuid.NewString()[:8]
	admin := createTestUser(t, func(u *domain.User) {
		u.Name = "Admin " + needle
		u.Role = domain.RoleAdmin
	})
	createTestUser(t, func(u *domain.User) {
		u.Name = "Customer " + needle
	})

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	users, total, err := repo.List(ctx, UserQuery{Search: needle, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected both test users, got total=%d len=%d", total, len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Error("listing leaked a password hash")
		}
	}

	role := domain.RoleAdmin
	users, total, err = repo.List(ctx, UserQuery{
		Filter: UserFilter{Role: &role},
		Search: needle,
		Page:   1,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("List with role filter failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].ID != admin.ID {
		t.Errorf("role filter returned wrong rows: total=%d", total)
	}
}

func TestUserRepository_BulkUpdateFlags(t *testing.T) {
	a := createTestUser(t, nil)
	b := createTestUser(t, nil)

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	verified := true
	role := domain.RoleAdmin
	updated, err := repo.BulkUpdateFlags(ctx, []uuid.UUID{a.ID, b.ID}, nil, &verified, &role)
	if err != nil {
		t.Fatalf("BulkUpdateFlags failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}

	found, err := repo.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !found.IsEmailVerified || found.Role != domain.RoleAdmin {
		t.Errorf("flags not applied: verified=%v role=%s", found.IsEmailVerified, found.Role)
	}
}

func TestUserRepository_BulkDelete(t *testing.T) {
	a := createTestUser(t, nil)
	b := createTestUser(t, nil)

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	deleted, err := repo.BulkDelete(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	if _, err := repo.FindByID(ctx, a.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after bulk delete, got %v", err)
	}
}
