package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// ReviewService manages property reviews.
type ReviewService struct {
	reviews    repository.ReviewRepository
	properties repository.PropertyRepository
	now        func() time.Time
}

// ReviewInput describes a new review.
type ReviewInput struct {
	PropertyID   string
	ReviewerName string
	Rating       int
	Comment      string
}

// NewReviewService builds the service.
func NewReviewService(reviews repository.ReviewRepository, properties repository.PropertyRepository) *ReviewService {
	return &ReviewService{reviews: reviews, properties: properties, now: time.Now}
}

func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	return wrapList(s.reviews.List(ctx))
}

func (s *ReviewService) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return wrapList(s.reviews.ListByProperty(ctx, propertyID))
}

func (s *ReviewService) ListByEmail(ctx context.Context, email string) ([]domain.Review, error) {
	return wrapList(s.reviews.ListByEmail(ctx, email))
}

// Create stores a review authored by actor on an existing property.
func (s *ReviewService) Create(ctx context.Context, actor auth.Principal, in ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewBadRequest("rating must be between 1 and 5")
	}
	if _, err := s.properties.GetByID(ctx, in.PropertyID); err != nil {
		return nil, lookupError(err, "Property", map[string]any{"property_id": in.PropertyID})
	}
	review := &domain.Review{
		PropertyID:   in.PropertyID,
		Email:        actor.Identity,
		ReviewerName: strings.TrimSpace(in.ReviewerName),
		Rating:       in.Rating,
		Comment:      strings.TrimSpace(in.Comment),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

// Delete removes a review written by actor. Admins may remove any review.
func (s *ReviewService) Delete(ctx context.Context, actor auth.Principal, id string) (docstore.DeleteResult, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return docstore.DeleteResult{}, lookupError(err, "Review", map[string]any{"review_id": id})
	}
	if review.Email != actor.Identity && !actor.Is(domain.RoleAdmin) {
		return docstore.DeleteResult{}, apperrors.NewForbidden("you can only delete your own reviews")
	}
	res, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return docstore.DeleteResult{}, apperrors.MapError(err)
	}
	if res.DeletedCount == 0 {
		return res, apperrors.NewNotFound("Review", map[string]any{"review_id": id})
	}
	return res, nil
}

func wrapList[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}
