package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/token"
)

func newBareServer() *Server {
	return &Server{
		tokens: token.Service{Secret: []byte(testJWTSecret), TTL: time.Hour},
		logger: zap.NewNop(),
	}
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	srv := newBareServer()
	userID := uuid.New()

	signed, _, err := srv.tokens.Issue(userID.String(), "alice@example.com", domain.RoleUser, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got Identity
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	srv.authenticate(next).ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.UserID != userID || got.Email != "alice@example.com" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthenticatePassesThroughInvalidTokens(t *testing.T) {
	srv := newBareServer()

	for _, header := range []string{"", "Bearer", "Bearer garbage", "Basic dXNlcjpwYXNz"} {
		var ok bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok = IdentityFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		srv.authenticate(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("header %q: status = %d, want pass-through", header, rec.Code)
		}
		if ok {
			t.Fatalf("header %q: expected no identity", header)
		}
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	srv := newBareServer()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.requireUser(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	srv := newBareServer()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.requireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), Role: domain.RoleUser}))
	rec = httptest.NewRecorder()
	srv.requireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status = %d, want 403", rec.Code)
	}
	if called {
		t.Fatal("handler should not have run for non-admin")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), Role: domain.RoleAdmin}))
	rec = httptest.NewRecorder()
	srv.requireAdmin(next).ServeHTTP(rec, req)
	if !called {
		t.Fatal("handler should run for admin")
	}
}
