package repository

import (
	"context"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// UserRepository defines persistence access for marketplace accounts.
type UserRepository interface {
	// Create returns ErrDuplicate when the email is already registered.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) (docstore.UpdateResult, error)
	Delete(ctx context.Context, id string) (docstore.DeleteResult, error)
}

type userRepository struct {
	users docstore.Collection
}

// NewUserRepository returns a document-store backed implementation.
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{users: store.Collection(UsersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return translate(err)
	}
	user.ID = res.InsertedID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, byID(id), &user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, docstore.Filter{"email": email}, &user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.users.Find(ctx, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role domain.Role) (docstore.UpdateResult, error) {
	return r.users.UpdateOne(ctx, byID(id), docstore.Set{"role": role})
}

func (r *userRepository) Delete(ctx context.Context, id string) (docstore.DeleteResult, error) {
	return r.users.DeleteOne(ctx, byID(id))
}
