package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
}

// RegisterInput describes a self-registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PhotoURL string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tm := deps.TokenManager
	if tm == nil {
		tm = auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tm,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Register creates a member account. An already registered email is not an
// error: the existing record is returned with created == false and nothing is
// written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, bool, error) {
	email := strings.TrimSpace(in.Email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}

	// Role is never taken from the caller.
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PhotoURL:     in.PhotoURL,
		Role:         domain.RoleMember,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, apperrors.MapError(err)
		}
		// A concurrent registration won the unique email index.
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, apperrors.MapError(err)
		}
		return existing, false, nil
	}
	return user, true, nil
}

// Login verifies the password and issues a signed credential. Every failure
// renders as the same 401 so callers cannot discover registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", time.Time{}, apperrors.NewUnauthorized(auth.ErrInvalidCredential)
	}
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized(err)
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.Email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}
