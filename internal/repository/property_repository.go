package repository

import (
	"context"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// PropertyFilter narrows listing queries. Zero fields are ignored.
type PropertyFilter struct {
	AgentEmail string
	Status     domain.PropertyStatus
}

func (f PropertyFilter) toFilter() docstore.Filter {
	filter := docstore.Filter{}
	if f.AgentEmail != "" {
		filter["agentEmail"] = f.AgentEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// PropertyRepository manages listings.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error)
	Update(ctx context.Context, id string, fields docstore.Set) (docstore.UpdateResult, error)
	// UpdateOwned and DeleteOwned only touch the listing while agentEmail
	// still owns it.
	UpdateOwned(ctx context.Context, id, agentEmail string, fields docstore.Set) (docstore.UpdateResult, error)
	DeleteOwned(ctx context.Context, id, agentEmail string) (docstore.DeleteResult, error)
}

type propertyRepository struct {
	properties docstore.Collection
}

// NewPropertyRepository builds the repository.
func NewPropertyRepository(store docstore.Store) PropertyRepository {
	return &propertyRepository{properties: store.Collection(PropertiesCollection)}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	res, err := r.properties.InsertOne(ctx, property)
	if err != nil {
		return err
	}
	property.ID = res.InsertedID
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	if err := r.properties.FindOne(ctx, byID(id), &property); err != nil {
		return nil, translate(err)
	}
	return &property, nil
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.Property, error) {
	var properties []domain.Property
	if err := r.properties.Find(ctx, filter.toFilter(), &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, id string, fields docstore.Set) (docstore.UpdateResult, error) {
	return r.properties.UpdateOne(ctx, byID(id), fields)
}

func (r *propertyRepository) UpdateOwned(ctx context.Context, id, agentEmail string, fields docstore.Set) (docstore.UpdateResult, error) {
	return r.properties.UpdateOne(ctx, ownedBy(id, agentEmail), fields)
}

func (r *propertyRepository) DeleteOwned(ctx context.Context, id, agentEmail string) (docstore.DeleteResult, error) {
	return r.properties.DeleteOne(ctx, ownedBy(id, agentEmail))
}

func ownedBy(id, agentEmail string) docstore.Filter {
	return docstore.Filter{docstore.IDField: id, "agentEmail": agentEmail}
}
