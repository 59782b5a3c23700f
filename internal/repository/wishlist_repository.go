package repository

import (
	"context"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// WishlistRepository stores saved properties per user.
type WishlistRepository interface {
	Add(ctx context.Context, item *domain.WishlistItem) error
	GetByID(ctx context.Context, id string) (*domain.WishlistItem, error)
	Find(ctx context.Context, email, propertyID string) (*domain.WishlistItem, error)
	ListByEmail(ctx context.Context, email string) ([]domain.WishlistItem, error)
	// Delete removes the item only if it belongs to email.
	Delete(ctx context.Context, id, email string) (docstore.DeleteResult, error)
}

type wishlistRepository struct {
	items docstore.Collection
}

// NewWishlistRepository builds the repository.
func NewWishlistRepository(store docstore.Store) WishlistRepository {
	return &wishlistRepository{items: store.Collection(WishlistCollection)}
}

func (r *wishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	res, err := r.items.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	item.ID = res.InsertedID
	return nil
}

func (r *wishlistRepository) GetByID(ctx context.Context, id string) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	if err := r.items.FindOne(ctx, byID(id), &item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *wishlistRepository) Find(ctx context.Context, email, propertyID string) (*domain.WishlistItem, error) {
	var item domain.WishlistItem
	if err := r.items.FindOne(ctx, docstore.Filter{"email": email, "propertyId": propertyID}, &item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *wishlistRepository) ListByEmail(ctx context.Context, email string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := r.items.Find(ctx, docstore.Filter{"email": email}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) Delete(ctx context.Context, id, email string) (docstore.DeleteResult, error) {
	return r.items.DeleteOne(ctx, docstore.Filter{docstore.IDField: id, "email": email})
}
