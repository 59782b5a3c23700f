// Package service implements the marketplace workflows behind the HTTP routes.
// Route policies decide who may call an operation; services enforce ownership of
// the stored record being touched.
package service

import (
	"context"
	"errors"

	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// publish emits an event when a dispatcher is wired. Handler failures never
// fail the business operation that triggered them.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

// lookupError maps a repository miss onto a NotFound for resource.
func lookupError(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}
