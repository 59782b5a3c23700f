package auth

import (
	"context"
	"sync"

	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
)

// fakeUsers is an in-memory UserLookup that counts lookups.
type fakeUsers struct {
	mu      sync.Mutex
	roles   map[string]domain.Role
	err     error
	lookups int
}

func newFakeUsers(roles map[string]domain.Role) *fakeUsers {
	return &fakeUsers{roles: roles}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.User{Email: email, Role: role}, nil
}

func (f *fakeUsers) setRole(email string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[email] = role
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}
