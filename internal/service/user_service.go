package service

import (
	"context"
	"errors"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// UserService backs the admin user-management routes and role lookups.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every registered user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Role reports the stored role of email. Users without a record are members.
func (s *UserService) Role(ctx context.Context, email string) (domain.Role, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.RoleMember, nil
	}
	if err != nil {
		return "", apperrors.MapError(err)
	}
	return user.EffectiveRole(), nil
}

// PromoteAdmin sets the role of user id to admin.
func (s *UserService) PromoteAdmin(ctx context.Context, id string) (docstore.UpdateResult, error) {
	return s.setRole(ctx, id, domain.RoleAdmin)
}

// PromoteAgent sets the role of user id to agent.
func (s *UserService) PromoteAgent(ctx context.Context, id string) (docstore.UpdateResult, error) {
	return s.setRole(ctx, id, domain.RoleAgent)
}

func (s *UserService) setRole(ctx context.Context, id string, role domain.Role) (docstore.UpdateResult, error) {
	res, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}
	return res, nil
}

// Delete removes user id.
func (s *UserService) Delete(ctx context.Context, id string) (docstore.DeleteResult, error) {
	res, err := s.users.Delete(ctx, id)
	if err != nil {
		return docstore.DeleteResult{}, apperrors.MapError(err)
	}
	if res.DeletedCount == 0 {
		return res, apperrors.NewNotFound("User", map[string]any{"user_id": id})
	}
	return res, nil
}
