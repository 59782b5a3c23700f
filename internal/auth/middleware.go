package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

const requestKey = "auth_request"

// Guard returns a handler that evaluates policy before the route's business
// handler. A rejected request never reaches the next handler.
func (a *AccessControl) Guard(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := a.NewRequest(c.Get(fiber.HeaderAuthorization), c.AllParams())
		outcome := a.Evaluate(c.UserContext(), policy, req)
		if outcome.Stage == StageRejected {
			return outcome.Err
		}
		if !policy.IsPublic() {
			c.Locals(requestKey, req)
		}

		err := c.Next()
		stage := StageCompleted
		if err != nil {
			stage = StageRejected
		}
		a.logger.Debug("request evaluated",
			zap.String("policy", policy.String()),
			zap.String("stage", string(stage)),
			zap.String("path", c.Path()))
		return err
	}
}

// PrincipalFromContext returns the caller of a guarded request. Unguarded
// requests resolve to Guest.
func PrincipalFromContext(c *fiber.Ctx) (Principal, error) {
	req, ok := c.Locals(requestKey).(*Request)
	if !ok || req == nil {
		return Guest, nil
	}
	p, err := req.Principal(c.UserContext())
	if err != nil {
		return Principal{}, apperrors.NewInternalError(err)
	}
	return p, nil
}

// RequirePrincipal is PrincipalFromContext for handlers that must never run
// unauthenticated.
func RequirePrincipal(c *fiber.Ctx) (Principal, error) {
	p, err := PrincipalFromContext(c)
	if err != nil {
		return Principal{}, err
	}
	if p.Identity == "" {
		return Principal{}, apperrors.NewUnauthorized(ErrMissingCredential)
	}
	return p, nil
}
