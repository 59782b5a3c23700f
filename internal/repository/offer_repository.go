package repository

import (
	"context"
	"time"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// OfferRepository stores buyer offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	FindPending(ctx context.Context, buyerEmail, propertyID string) (*domain.Offer, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Offer, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error)
	// Transition moves an offer from one status to another only if it is
	// still in the from status. ModifiedCount is zero when it was not.
	Transition(ctx context.Context, id string, from, to domain.OfferStatus) (docstore.UpdateResult, error)
	// RejectPending rejects every still-pending offer on a property.
	RejectPending(ctx context.Context, propertyID string) (docstore.UpdateResult, error)
	// ClaimProperty marks a property as taken by an accepted offer. It returns
	// ErrDuplicate when another offer already holds the claim.
	ClaimProperty(ctx context.Context, propertyID, offerID string) error
	// ReleaseProperty drops the claim if offerID still holds it.
	ReleaseProperty(ctx context.Context, propertyID, offerID string) error
}

type propertyClaim struct {
	PropertyID string    `json:"_id"`
	OfferID    string    `json:"offerId"`
	ClaimedAt  time.Time `json:"claimedAt"`
}

type offerRepository struct {
	offers docstore.Collection
	claims docstore.Collection
}

// NewOfferRepository builds the repository.
func NewOfferRepository(store docstore.Store) OfferRepository {
	return &offerRepository{
		offers: store.Collection(OffersCollection),
		claims: store.Collection(ClaimsCollection),
	}
}

func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	res, err := r.offers.InsertOne(ctx, offer)
	if err != nil {
		return err
	}
	offer.ID = res.InsertedID
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	var offer domain.Offer
	if err := r.offers.FindOne(ctx, byID(id), &offer); err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

func (r *offerRepository) FindPending(ctx context.Context, buyerEmail, propertyID string) (*domain.Offer, error) {
	filter := docstore.Filter{
		"buyerEmail": buyerEmail,
		"propertyId": propertyID,
		"status":     domain.OfferStatusPending,
	}
	var offer domain.Offer
	if err := r.offers.FindOne(ctx, filter, &offer); err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

func (r *offerRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Offer, error) {
	return r.find(ctx, docstore.Filter{"buyerEmail": buyerEmail})
}

func (r *offerRepository) ListByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	return r.find(ctx, docstore.Filter{"agentEmail": agentEmail})
}

func (r *offerRepository) Transition(ctx context.Context, id string, from, to domain.OfferStatus) (docstore.UpdateResult, error) {
	filter := docstore.Filter{docstore.IDField: id, "status": from}
	return r.offers.UpdateOne(ctx, filter, docstore.Set{"status": to})
}

func (r *offerRepository) RejectPending(ctx context.Context, propertyID string) (docstore.UpdateResult, error) {
	filter := docstore.Filter{"propertyId": propertyID, "status": domain.OfferStatusPending}
	return r.offers.UpdateMany(ctx, filter, docstore.Set{"status": domain.OfferStatusRejected})
}

func (r *offerRepository) ClaimProperty(ctx context.Context, propertyID, offerID string) error {
	claim := propertyClaim{PropertyID: propertyID, OfferID: offerID, ClaimedAt: time.Now().UTC()}
	if _, err := r.claims.InsertOne(ctx, claim); err != nil {
		return translate(err)
	}
	return nil
}

func (r *offerRepository) ReleaseProperty(ctx context.Context, propertyID, offerID string) error {
	_, err := r.claims.DeleteOne(ctx, docstore.Filter{docstore.IDField: propertyID, "offerId": offerID})
	return err
}

func (r *offerRepository) find(ctx context.Context, filter docstore.Filter) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := r.offers.Find(ctx, filter, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}
