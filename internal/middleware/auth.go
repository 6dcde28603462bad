package middleware

import (
	"context"
	"net/http"
	"strings"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity stores the resolved caller identity on a context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the caller identity, nil for anonymous requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}

// IdentityMiddleware resolves the Authorization header into a caller
// identity. It never rejects: a missing header, a malformed header, a bad
// token or a deactivated account all continue as anonymous, and each
// operation decides what anonymous callers may do.
func IdentityMiddleware(auth service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity := auth.ResolveIdentity(r.Context(), token)
			if identity == nil {
				logger.Debug("Bearer token did not resolve to an active user")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
