package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// OfferService coordinates bids between buyers and listing agents.
type OfferService struct {
	offers     repository.OfferRepository
	properties repository.PropertyRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// OfferDependencies bundles collaborators for the offer service.
type OfferDependencies struct {
	OfferRepo    repository.OfferRepository
	PropertyRepo repository.PropertyRepository
	Dispatcher   events.Dispatcher
}

// OfferInput describes a buyer's bid.
type OfferInput struct {
	PropertyID  string
	OfferAmount float64
	BuyerName   string
	BuyingDate  string
}

// NewOfferService builds the service.
func NewOfferService(deps OfferDependencies) *OfferService {
	return &OfferService{
		offers:     deps.OfferRepo,
		properties: deps.PropertyRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create places a bid by actor on a verified listing. Only members buy; the
// amount must fall inside the advertised price range and a buyer holds at most
// one pending offer per property.
func (s *OfferService) Create(ctx context.Context, actor auth.Principal, in OfferInput) (*domain.Offer, error) {
	if !actor.Is(domain.RoleMember) {
		return nil, apperrors.NewForbidden("only buyers can make offers")
	}
	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, lookupError(err, "Property", map[string]any{"property_id": in.PropertyID})
	}
	if property.Status != domain.PropertyStatusVerified {
		return nil, apperrors.NewConflict("property is not open for offers", map[string]any{"status": property.Status})
	}
	if !property.PriceInRange(in.OfferAmount) {
		return nil, apperrors.NewValidationError("offer amount outside the listing price range", map[string]any{
			"offerAmount": in.OfferAmount,
			"minPrice":    property.MinPrice,
			"maxPrice":    property.MaxPrice,
		})
	}

	_, err = s.offers.FindPending(ctx, actor.Identity, property.ID)
	if err == nil {
		return nil, apperrors.NewConflict("a pending offer already exists for this property", map[string]any{"property_id": property.ID})
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	offer := &domain.Offer{
		PropertyID:    property.ID,
		PropertyTitle: property.PropertyTitle,
		Location:      property.Location,
		AgentEmail:    property.AgentEmail,
		BuyerEmail:    actor.Identity,
		BuyerName:     strings.TrimSpace(in.BuyerName),
		OfferAmount:   in.OfferAmount,
		BuyingDate:    in.BuyingDate,
		Status:        domain.OfferStatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.New(events.EventOfferCreated, offer.ID, actor.Identity, events.OfferCreatedPayload{
		PropertyID:  offer.PropertyID,
		AgentEmail:  offer.AgentEmail,
		BuyerEmail:  offer.BuyerEmail,
		OfferAmount: offer.OfferAmount,
	}))
	return offer, nil
}

func (s *OfferService) ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Offer, error) {
	return wrapList(s.offers.ListByBuyer(ctx, buyerEmail))
}

func (s *OfferService) ListByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	return wrapList(s.offers.ListByAgent(ctx, agentEmail))
}

// Accept marks offer id accepted and rejects every other pending offer on the
// same property. A property accepts at most one offer: the claim on it is
// taken before the offer moves, and dropped again if the offer was answered
// concurrently.
func (s *OfferService) Accept(ctx context.Context, actor auth.Principal, id string) (docstore.UpdateResult, error) {
	offer, err := s.pendingForAgent(ctx, actor, id)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	if err := s.offers.ClaimProperty(ctx, offer.PropertyID, id); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return docstore.UpdateResult{}, apperrors.NewConflict("property already has an accepted offer", map[string]any{"property_id": offer.PropertyID})
		}
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}
	res, err := s.offers.Transition(ctx, id, domain.OfferStatusPending, domain.OfferStatusAccepted)
	if err != nil || res.ModifiedCount == 0 {
		if relErr := s.offers.ReleaseProperty(ctx, offer.PropertyID, id); relErr != nil && err == nil {
			err = relErr
		}
		if err != nil {
			return docstore.UpdateResult{}, apperrors.MapError(err)
		}
		return res, apperrors.NewConflict("offer is no longer pending", map[string]any{"offer_id": id})
	}
	rejected, err := s.offers.RejectPending(ctx, offer.PropertyID)
	if err != nil {
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.New(events.EventOfferStatusChanged, id, actor.Identity, events.OfferStatusChangedPayload{
		PropertyID: offer.PropertyID,
		BuyerEmail: offer.BuyerEmail,
		NewStatus:  domain.OfferStatusAccepted,
		Rejected:   rejected.ModifiedCount,
	}))
	return res, nil
}

// Reject closes a pending offer on one of the actor's listings.
func (s *OfferService) Reject(ctx context.Context, actor auth.Principal, id string) (docstore.UpdateResult, error) {
	offer, err := s.pendingForAgent(ctx, actor, id)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	res, err := s.offers.Transition(ctx, id, domain.OfferStatusPending, domain.OfferStatusRejected)
	if err != nil {
		return docstore.UpdateResult{}, apperrors.MapError(err)
	}
	if res.ModifiedCount == 0 {
		return res, apperrors.NewConflict("offer is no longer pending", map[string]any{"offer_id": id})
	}

	publish(ctx, s.dispatcher, events.New(events.EventOfferStatusChanged, id, actor.Identity, events.OfferStatusChangedPayload{
		PropertyID: offer.PropertyID,
		BuyerEmail: offer.BuyerEmail,
		NewStatus:  domain.OfferStatusRejected,
	}))
	return res, nil
}

func (s *OfferService) pendingForAgent(ctx context.Context, actor auth.Principal, id string) (*domain.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Offer", map[string]any{"offer_id": id})
	}
	if offer.AgentEmail != actor.Identity {
		return nil, apperrors.NewForbidden("you can only respond to offers on your own listings")
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, apperrors.NewConflict("offer is no longer pending", map[string]any{"status": offer.Status})
	}
	return offer, nil
}
