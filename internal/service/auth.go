package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinerate/cinerate/internal/apperr"
	"github.com/cinerate/cinerate/internal/domain"
	"github.com/cinerate/cinerate/internal/repository"
	"github.com/cinerate/cinerate/internal/token"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLength = 8
	// bcrypt rejects inputs longer than 72 bytes.
	maxPasswordLength = 72
	// matches the users.email column width.
	maxEmailLength = 50
)

// AuthService handles registration, login, and identity lookups.
type AuthService struct {
	users      *repository.UsersRepository
	tokens     token.Service
	adminEmail string
	logger     *zap.Logger
}

// NewAuthService constructs an AuthService. adminEmail, when non-empty,
// names the account that is granted the admin role on registration.
func NewAuthService(users *repository.UsersRepository, tokens token.Service, adminEmail string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)), logger: logger}
}

// AuthResult bundles a freshly issued token with its owner.
type AuthResult struct {
	AccessToken string
	ExpiresIn   int64
	User        domain.User
}

// Register creates a new account and signs it in. A taken email yields a
// Conflict error from the existence pre-check; the database unique
// constraint remains the race-safety net for concurrent registrations of
// the same address.
func (s *AuthService) Register(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var fields []apperr.FieldError
	if !emailPattern.MatchString(email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "Email should be valid"})
	} else if len(email) > maxEmailLength {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "Email cannot exceed 50 characters"})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "Password must be at least 8 characters long"})
	} else if len(password) > maxPasswordLength {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "Password cannot exceed 72 characters"})
	}
	if len(fields) > 0 {
		return AuthResult{}, apperr.Validation(fields...)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, apperr.Conflict("User", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	role := domain.RoleUser
	if s.adminEmail != "" && email == s.adminEmail {
		role = domain.RoleAdmin
	}

	user, err := s.users.Create(ctx, repository.UserCreateParams{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return AuthResult{}, apperr.Conflict("User", "email", email)
		}
		return AuthResult{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issueToken(user)
}

// Login verifies credentials and signs the user in. Both an unknown email
// and a wrong password yield the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, apperr.Unauthorized("Invalid email or password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, apperr.Unauthorized("Invalid email or password")
		}
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, apperr.Unauthorized("Invalid email or password")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return s.issueToken(user)
}

// CurrentUser returns the account behind an authenticated identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.NotFound("User", "id", userID)
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user domain.User) (AuthResult, error) {
	now := time.Now().UTC()
	signed, exp, err := s.tokens.Issue(user.ID.String(), user.Email, user.Role, now)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		AccessToken: signed,
		ExpiresIn:   int64(exp.Sub(now).Seconds()),
		User:        user,
	}, nil
}
