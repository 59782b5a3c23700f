package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// WishlistService manages saved properties.
type WishlistService struct {
	items      repository.WishlistRepository
	properties repository.PropertyRepository
	now        func() time.Time
}

// NewWishlistService builds the service.
func NewWishlistService(items repository.WishlistRepository, properties repository.PropertyRepository) *WishlistService {
	return &WishlistService{items: items, properties: properties, now: time.Now}
}

// List returns the wishlist of email.
func (s *WishlistService) List(ctx context.Context, email string) ([]domain.WishlistItem, error) {
	items, err := s.items.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Add saves propertyID on the actor's wishlist.
func (s *WishlistService) Add(ctx context.Context, actor auth.Principal, propertyID string) (*domain.WishlistItem, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, lookupError(err, "Property", map[string]any{"property_id": propertyID})
	}

	_, err = s.items.Find(ctx, actor.Identity, propertyID)
	if err == nil {
		return nil, apperrors.NewConflict("property already in wishlist", map[string]any{"property_id": propertyID})
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	item := &domain.WishlistItem{
		Email:      actor.Identity,
		PropertyID: property.ID,
		Title:      property.PropertyTitle,
		Location:   property.Location,
		AgentEmail: property.AgentEmail,
		AddedAt:    s.now().UTC(),
	}
	if err := s.items.Add(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// Remove deletes one of the actor's own wishlist entries.
func (s *WishlistService) Remove(ctx context.Context, actor auth.Principal, id string) (docstore.DeleteResult, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return docstore.DeleteResult{}, lookupError(err, "Wishlist item", map[string]any{"wishlist_id": id})
	}
	if item.Email != actor.Identity {
		return docstore.DeleteResult{}, apperrors.NewForbidden("you can only modify your own wishlist")
	}
	res, err := s.items.Delete(ctx, id, actor.Identity)
	if err != nil {
		return docstore.DeleteResult{}, apperrors.MapError(err)
	}
	if res.DeletedCount == 0 {
		return res, apperrors.NewNotFound("Wishlist item", map[string]any{"wishlist_id": id})
	}
	return res, nil
}
