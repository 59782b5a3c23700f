package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
)

// Principal represents the authenticated caller of one request.
type Principal struct {
	Identity string
	Role     domain.Role
}

// Guest is the principal of a request without a credential.
var Guest = Principal{Role: domain.RoleGuest}

// Is reports whether the principal holds exactly role.
func (p Principal) Is(role domain.Role) bool {
	return p.Role == role
}

// UserLookup is the read-only user store capability the resolver needs.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PrincipalResolver maps verified claims onto the caller's current stored role.
// It keeps no state between calls; roles can change between requests.
type PrincipalResolver struct {
	users UserLookup
}

// NewPrincipalResolver constructs a resolver over the user store.
func NewPrincipalResolver(users UserLookup) *PrincipalResolver {
	return &PrincipalResolver{users: users}
}

// Resolve looks up the stored role for claims. An identity without a user
// record resolves to member rather than failing.
func (r *PrincipalResolver) Resolve(ctx context.Context, claims *Claims) (Principal, error) {
	if claims == nil {
		return Guest, nil
	}
	user, err := r.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{Identity: claims.Email, Role: domain.RoleMember}, nil
		}
		return Principal{}, err
	}
	return Principal{Identity: claims.Email, Role: user.EffectiveRole()}, nil
}

// Request is the request-scoped evaluation state. The principal is resolved
// at most once per Request.
type Request struct {
	header    string
	params    map[string]string
	resolver  *PrincipalResolver
	claims    *Claims
	principal *Principal
}

// Claims returns the verified claims, or nil before authentication.
func (r *Request) Claims() *Claims {
	return r.claims
}

// Identity returns the authenticated identity, or "" before authentication.
func (r *Request) Identity() string {
	if r.claims == nil {
		return ""
	}
	return r.claims.Email
}

// Param returns a path parameter.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Principal resolves the caller, memoizing the result for the request's lifetime.
func (r *Request) Principal(ctx context.Context) (Principal, error) {
	if r.principal != nil {
		return *r.principal, nil
	}
	if r.claims == nil {
		return Guest, nil
	}
	p, err := r.resolver.Resolve(ctx, r.claims)
	if err != nil {
		return Principal{}, err
	}
	r.principal = &p
	return p, nil
}
