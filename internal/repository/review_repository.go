package repository

import (
	"context"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// ReviewRepository stores property reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Review, error)
	Delete(ctx context.Context, id string) (docstore.DeleteResult, error)
}

type reviewRepository struct {
	reviews docstore.Collection
}

// NewReviewRepository builds the repository.
func NewReviewRepository(store docstore.Store) ReviewRepository {
	return &reviewRepository{reviews: store.Collection(ReviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	res, err := r.reviews.InsertOne(ctx, review)
	if err != nil {
		return err
	}
	review.ID = res.InsertedID
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var review domain.Review
	if err := r.reviews.FindOne(ctx, byID(id), &review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	return r.find(ctx, nil)
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return r.find(ctx, docstore.Filter{"propertyId": propertyID})
}

func (r *reviewRepository) ListByEmail(ctx context.Context, email string) ([]domain.Review, error) {
	return r.find(ctx, docstore.Filter{"email": email})
}

func (r *reviewRepository) Delete(ctx context.Context, id string) (docstore.DeleteResult, error) {
	return r.reviews.DeleteOne(ctx, byID(id))
}

func (r *reviewRepository) find(ctx context.Context, filter docstore.Filter) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := r.reviews.Find(ctx, filter, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
