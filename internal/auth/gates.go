package auth

import (
	"context"
	"fmt"

	"github.com/spec-kit/estate-service/internal/domain"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// Decision is the tagged result of a gate: allow, or deny with a reason.
type Decision struct {
	allowed bool
	reason  error
}

// Allow lets evaluation continue.
func Allow() Decision { return Decision{allowed: true} }

// Deny stops evaluation with reason.
func Deny(reason error) Decision { return Decision{reason: reason} }

// Allowed reports whether the gate passed.
func (d Decision) Allowed() bool { return d.allowed }

// Reason returns the denial error, nil when allowed.
func (d Decision) Reason() error { return d.reason }

// Gate is one pass/fail check in a route policy.
type Gate interface {
	Name() string
	Authorize(ctx context.Context, req *Request) Decision
}

type roleGate struct {
	required domain.Role
}

// RequireRole allows only principals whose stored role is exactly role.
// Admin does not satisfy an agent requirement. Panics on guest or an unknown
// role so that policy typos fail at startup.
func RequireRole(role domain.Role) Gate {
	if !role.Valid() || role == domain.RoleGuest {
		panic(fmt.Sprintf("RequireRole: invalid role %q", role))
	}
	return roleGate{required: role}
}

func (g roleGate) Name() string { return "role(" + string(g.required) + ")" }

func (g roleGate) Authorize(ctx context.Context, req *Request) Decision {
	if req.Claims() == nil {
		return Deny(apperrors.NewUnauthorized(ErrMissingCredential))
	}
	principal, err := req.Principal(ctx)
	if err != nil {
		return Deny(apperrors.NewInternalError(err))
	}
	if !principal.Is(g.required) {
		return Deny(apperrors.NewForbidden(fmt.Sprintf("%s role required", g.required)))
	}
	return Allow()
}

type ownerGate struct {
	param string
}

// RequireOwner allows only callers whose identity equals the named path
// parameter. The claimed identity is never read from the body.
func RequireOwner(param string) Gate {
	if param == "" {
		panic("RequireOwner: empty path parameter")
	}
	return ownerGate{param: param}
}

func (g ownerGate) Name() string { return "owner(:" + g.param + ")" }

func (g ownerGate) Authorize(_ context.Context, req *Request) Decision {
	identity := req.Identity()
	if identity == "" {
		return Deny(apperrors.NewUnauthorized(ErrMissingCredential))
	}
	claimed := req.Param(g.param)
	if claimed == "" || claimed != identity {
		return Deny(apperrors.NewForbidden("access to another user's resources is forbidden"))
	}
	return Allow()
}
