package service

import (
	"context"
	"testing"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	repo := newMockUserRepository()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	user := &domain.User{
		ID:   uuid.New(),
		Role: domain.RoleAdmin,
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != "admin" {
		t.Errorf("claims.Role = %s, want admin", claims.Role)
	}
}

func TestAuthService_ValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newMockUserRepository()
	issuer := NewAuthService(repo, "secret-a", time.Hour)
	verifier := NewAuthService(repo, "secret-b", time.Hour)

	token, err := issuer.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

// Every failure mode of identity resolution collapses to anonymous; the
// table walks each one.
func TestAuthService_ResolveIdentity(t *testing.T) {
	repo := newMockUserRepository()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	activeUser := &domain.User{
		ID:       uuid.New(),
		Name:     "Active",
		Email:    "active@example.com",
		Role:     domain.RoleCustomer,
		IsActive: true,
	}
	inactiveUser := &domain.User{
		ID:    uuid.New(),
		Email: "inactive@example.com",
		Role:  domain.RoleCustomer,
	}
	if err := repo.Create(ctx, activeUser); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, inactiveUser); err != nil {
		t.Fatal(err)
	}

	goodToken, _ := auth.GenerateToken(activeUser)
	inactiveToken, _ := auth.GenerateToken(inactiveUser)
	unknownToken, _ := auth.GenerateToken(&domain.User{ID: uuid.New()})
	shortAuth := NewAuthService(repo, "test-secret", time.Nanosecond)
	expiredToken, _ := shortAuth.GenerateToken(activeUser)
	time.Sleep(10 * time.Millisecond)

	cases := []struct {
		name      string
		token     string
		wantID    *uuid.UUID
		anonymous bool
	}{
		{name: "valid token", token: goodToken, wantID: &activeUser.ID},
		{name: "empty token", token: "", anonymous: true},
		{name: "garbage token", token: "not-a-jwt", anonymous: true},
		{name: "expired token", token: expiredToken, anonymous: true},
		{name: "unknown user", token: unknownToken, anonymous: true},
		{name: "deactivated account", token: inactiveToken, anonymous: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity := auth.ResolveIdentity(ctx, tc.token)
			if tc.anonymous {
				if identity != nil {
					t.Errorf("expected anonymous, got %+v", identity)
				}
				return
			}
			if identity == nil {
				t.Fatal("expected an identity, got anonymous")
			}
			if identity.ID != *tc.wantID {
				t.Errorf("identity.ID = %s, want %s", identity.ID, *tc.wantID)
			}
		})
	}
}

func TestAuthService_ExpiresIn(t *testing.T) {
	repo := newMockUserRepository()

	if got := NewAuthService(repo, "s", 24*time.Hour).ExpiresIn(); got != "1 day" {
		t.Errorf("ExpiresIn() = %q, want %q", got, "1 day")
	}
	if got := NewAuthService(repo, "s", 0).ExpiresIn(); got != "7 days" {
		t.Errorf("ExpiresIn() = %q, want %q", got, "7 days")
	}
}
