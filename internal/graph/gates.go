package graph

import (
	"context"
	"errors"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/middleware"

	"github.com/google/uuid"
)

// Gate errors surface verbatim in GraphQL error payloads.
var (
	ErrAuthRequired  = errors.New("Authentication required")
	ErrAdminRequired = errors.New("Admin access required")
	ErrAccessDenied  = errors.New("Access denied")
)

// requireAuthenticated returns the caller's identity or fails. Anonymous
// requests reach every resolver; the gates decide per operation.
func requireAuthenticated(ctx context.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		return nil, ErrAuthRequired
	}
	return identity, nil
}

// requireAdmin returns the caller's identity when it carries the admin
// role
func requireAdmin(ctx context.Context) (*domain.Identity, error) {
	identity, err := requireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return identity, nil
}

// requireOwnerOrAdmin allows the resource owner and any admin
func requireOwnerOrAdmin(ctx context.Context, ownerID uuid.UUID) (*domain.Identity, error) {
	identity, err := requireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if identity.ID != ownerID && !identity.IsAdmin() {
		return nil, ErrAccessDenied
	}
	return identity, nil
}
