// Package handlers adapts HTTP requests to service calls. Handlers assume the
// route policy has already authenticated and authorized the caller.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-service/internal/validation"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// bind decodes the JSON body into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validation.Struct(dst)
}
