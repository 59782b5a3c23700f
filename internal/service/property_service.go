package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

const errNotListingOwner = "you can only modify your own listings"

// PropertyService manages listings.
type PropertyService struct {
	properties repository.PropertyRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// PropertyDependencies bundles collaborators for the property service.
type PropertyDependencies struct {
	PropertyRepo repository.PropertyRepository
	Dispatcher   events.Dispatcher
}

// PropertyInput carries the agent-editable listing fields.
type PropertyInput struct {
	PropertyTitle string
	Location      string
	Image         string
	Description   string
	MinPrice      float64
	MaxPrice      float64
	AgentName     string
}

// PropertyPatch updates only the non-nil fields.
type PropertyPatch struct {
	PropertyTitle *string
	Location      *string
	Image         *string
	Description   *string
	MinPrice      *float64
	MaxPrice      *float64
	AgentName     *string
}

// NewPropertyService builds the service.
func NewPropertyService(deps PropertyDependencies) *PropertyService {
	return &PropertyService{
		properties: deps.PropertyRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// List returns every listing.
func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	return s.list(ctx, repository.PropertyFilter{})
}

// ListVerified returns listings approved by an admin.
func (s *PropertyService) ListVerified(ctx context.Context) ([]domain.Property, error) {
	return s.list(ctx, repository.PropertyFilter{Status: domain.PropertyStatusVerified})
}

// ListByAgent returns the listings advertised by agentEmail.
func (s *PropertyService) ListByAgent(ctx context.Context, agentEmail string) ([]domain.Property, error) {
	return s.list(ctx, repository.PropertyFilter{AgentEmail: agentEmail})
}

func (s *PropertyService) list(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, error) {
	properties, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return properties, nil
}

// Get returns listing id.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Property", map[string]any{"property_id": id})
	}
	return property, nil
}

// Create publishes a new listing owned by actor. It starts pending until an
// admin verifies it.
func (s *PropertyService) Create(ctx context.Context, actor auth.Principal, in PropertyInput) (*domain.Property, error) {
	if in.MaxPrice < in.MinPrice {
		return nil, apperrors.NewBadRequest("maxPrice must not be below minPrice")
	}
	property := &domain.Property{
		PropertyTitle: strings.TrimSpace(in.PropertyTitle),
		Location:      strings.TrimSpace(in.Location),
		Image:         in.Image,
		Description:   in.Description,
		MinPrice:      in.MinPrice,
		MaxPrice:      in.MaxPrice,
		AgentName:     in.AgentName,
		AgentEmail:    actor.Identity,
		Status:        domain.PropertyStatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, apperrors.MapError(err)
	}
	return property, nil
}

// Replace overwrites every editable field of a listing owned by actor.
func (s *PropertyService) Replace(ctx context.Context, actor auth.Principal, id string, in PropertyInput) (docstore.UpdateResult, error) {
	patch := PropertyPatch{
		PropertyTitle: &in.PropertyTitle,
		Location:      &in.Location,
		Image:         &in.Image,
		Description:   &in.Description,
		MinPrice:      &in.MinPrice,
		MaxPrice:      &in.MaxPrice,
		AgentName:     &in.AgentName,
	}
	return s.Patch(ctx, actor, id, patch)
}

// Patch updates the given fields of a listing owned by actor.
func (s *PropertyService) Patch(ctx context.Context, actor auth.Principal, id string, patch PropertyPatch) (docstore.UpdateResult, error) {
	property, err := s.ownedListing(ctx, actor, id)
	if err != nil {
		return docstore.UpdateResult{}, err
	}

	minPrice, maxPrice := property.MinPrice, property.MaxPrice
	if patch.MinPrice != nil {
		minPrice = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		maxPrice = *patch.MaxPrice
	}
	if maxPrice < minPrice {
		return docstore.UpdateResult{}, apperrors.NewBadRequest("maxPrice must not be below minPrice")
	}

	fields := docstore.Set{}
	setString(fields, "propertyTitle", patch.PropertyTitle)
	setString(fields, "location", patch.Location)
	setString(fields, "image", patch.Image)
	setString(fields, "description", patch.Description)
	setString(fields, "agentName", patch.AgentName)
	if patch.MinPrice != nil {
		fields["minPrice"] = *patch.MinPrice
	}
	if patch.MaxPrice != nil {
		fields["maxPrice"] = *patch.MaxPrice
	}
	if len(fields) == 0 {
		return docstore.UpdateResult{MatchedCount: 1}, nil
	}

	res, err := s.properties.UpdateOwned(ctx, id, actor.Identity, fields)
	if err != nil {
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}
	if res.MatchedCount == 0 {
		return res, propertyNotFound(id)
	}
	return res, nil
}

// SetStatus records an admin verification decision.
func (s *PropertyService) SetStatus(ctx context.Context, actor auth.Principal, id string, status domain.PropertyStatus) (docstore.UpdateResult, error) {
	if !status.Valid() {
		return docstore.UpdateResult{}, apperrors.NewBadRequest("unknown property status")
	}
	property, err := s.Get(ctx, id)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	res, err := s.properties.Update(ctx, id, docstore.Set{"status": status})
	if err != nil {
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}
	if res.MatchedCount == 0 {
		return res, propertyNotFound(id)
	}
	if res.ModifiedCount > 0 {
		publish(ctx, s.dispatcher, events.New(events.EventPropertyStatusChanged, id, actor.Identity,
			events.PropertyStatusChangedPayload{AgentEmail: property.AgentEmail, NewStatus: status}))
	}
	return res, nil
}

// Delete removes a listing owned by actor.
func (s *PropertyService) Delete(ctx context.Context, actor auth.Principal, id string) (docstore.DeleteResult, error) {
	if _, err := s.ownedListing(ctx, actor, id); err != nil {
		return docstore.DeleteResult{}, err
	}
	res, err := s.properties.DeleteOwned(ctx, id, actor.Identity)
	if err != nil {
		return docstore.DeleteResult{}, apperrors.MapError(err)
	}
	if res.DeletedCount == 0 {
		return res, propertyNotFound(id)
	}
	return res, nil
}

func propertyNotFound(id string) error {
	return apperrors.NewNotFound("Property", map[string]any{"property_id": id})
}

func (s *PropertyService) ownedListing(ctx context.Context, actor auth.Principal, id string) (*domain.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.AgentEmail != actor.Identity {
		return nil, apperrors.NewForbidden(errNotListingOwner)
	}
	return property, nil
}

func setString(fields docstore.Set, key string, value *string) {
	if value == nil {
		return
	}
	fields[key] = strings.TrimSpace(*value)
}
