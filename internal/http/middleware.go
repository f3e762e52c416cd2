package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cinerate/cinerate/internal/domain"
)

type ctxKeyIdentity struct{}

// Identity is the authenticated caller attached to the request context by
// the authentication middleware.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return id, ok
}

// WithIdentity injects an identity into ctx. Useful for testing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity{}, id)
}

// authenticate parses the Authorization header and attaches identity to the
// request context when the bearer token is valid. An absent or invalid
// token does not fail the request here; the per-route requirement does.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := strings.TrimSpace(r.Header.Get("Authorization"))
		if authz == "" {
			next.ServeHTTP(w, r)
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		id := Identity{UserID: userID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// requireUser rejects requests that carry no authenticated identity.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			s.respondError(w, r, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects unauthenticated requests with 401 and authenticated
// non-admin requests with 403.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			s.respondError(w, r, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		if id.Role != domain.RoleAdmin {
			s.respondError(w, r, http.StatusForbidden, "You don't have permission to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
