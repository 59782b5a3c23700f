package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/payments"
	"github.com/spec-kit/estate-service/internal/repository"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

// PaymentService runs the two-phase purchase of an accepted offer.
type PaymentService struct {
	offers     repository.OfferRepository
	payments   repository.PaymentRepository
	intents    payments.IntentStore
	gateway    payments.Gateway
	dispatcher events.Dispatcher
	currency   string
	intentTTL  time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	OfferRepo   repository.OfferRepository
	PaymentRepo repository.PaymentRepository
	Intents     payments.IntentStore
	Gateway     payments.Gateway
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPaymentService builds the service.
func NewPaymentService(cfg config.PaymentConfig, deps PaymentDependencies) *PaymentService {
	ttl := cfg.IntentTTL()
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		offers:     deps.OfferRepo,
		payments:   deps.PaymentRepo,
		intents:    deps.Intents,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
		currency:   currency,
		intentTTL:  ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateIntent reserves a charge for an accepted offer held by actor.
func (s *PaymentService) CreateIntent(ctx context.Context, actor auth.Principal, offerID string) (*domain.PaymentIntent, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, lookupError(err, "Offer", map[string]any{"offer_id": offerID})
	}
	if offer.BuyerEmail != actor.Identity {
		return nil, apperrors.NewForbidden("you can only pay for your own offers")
	}
	if offer.Status != domain.OfferStatusAccepted {
		return nil, apperrors.NewConflict("offer has not been accepted", map[string]any{"status": offer.Status})
	}

	amount := toCents(offer.OfferAmount)
	gi, err := s.gateway.CreateIntent(ctx, payments.IntentRequest{
		AmountCents: amount,
		Currency:    s.currency,
		Metadata:    map[string]string{"offerId": offer.ID, "buyerEmail": offer.BuyerEmail},
	})
	if errors.Is(err, payments.ErrGatewayUnavailable) {
		return nil, apperrors.NewUnavailable("payment gateway unavailable", err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	intent := &domain.PaymentIntent{
		ID:           gi.ID,
		ClientSecret: gi.ClientSecret,
		OfferID:      offer.ID,
		BuyerEmail:   offer.BuyerEmail,
		AmountCents:  amount,
		Currency:     s.currency,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.intents.Save(ctx, intent, s.intentTTL); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return intent, nil
}

// Record completes the purchase for a stored intent. The offer moves from
// accepted to bought before the payment is written, so an offer is paid at
// most once however many intents were issued for it. The intent is only
// consumed after the payment is stored.
func (s *PaymentService) Record(ctx context.Context, actor auth.Principal, intentID, transactionID string) (*domain.Payment, error) {
	intent, err := s.intents.Get(ctx, intentID)
	if err != nil {
		return nil, intentError(err, intentID)
	}
	if intent.BuyerEmail != actor.Identity {
		return nil, apperrors.NewForbidden("payment intent belongs to another user")
	}

	offer, err := s.offers.GetByID(ctx, intent.OfferID)
	if err != nil {
		return nil, lookupError(err, "Offer", map[string]any{"offer_id": intent.OfferID})
	}
	if offer.BuyerEmail != actor.Identity {
		return nil, apperrors.NewForbidden("payment intent does not match the offer")
	}
	if offer.Status != domain.OfferStatusAccepted {
		return nil, apperrors.NewConflict("offer has not been accepted", map[string]any{"status": offer.Status})
	}

	res, err := s.offers.Transition(ctx, offer.ID, domain.OfferStatusAccepted, domain.OfferStatusBought)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if res.ModifiedCount == 0 {
		return nil, apperrors.NewConflict("offer has already been paid", map[string]any{"offer_id": offer.ID})
	}

	payment := &domain.Payment{
		OfferID:       offer.ID,
		PropertyID:    offer.PropertyID,
		PropertyTitle: offer.PropertyTitle,
		BuyerEmail:    offer.BuyerEmail,
		AgentEmail:    offer.AgentEmail,
		Amount:        float64(intent.AmountCents) / 100,
		IntentID:      intent.ID,
		TransactionID: transactionID,
		PaidAt:        s.now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		// Hand the offer back so the buyer can retry with the same intent.
		if _, revErr := s.offers.Transition(ctx, offer.ID, domain.OfferStatusBought, domain.OfferStatusAccepted); revErr != nil {
			s.logger.Error("failed to restore offer after payment write failure",
				zap.String("offer_id", offer.ID),
				zap.String("intent_id", intent.ID),
				zap.Error(revErr),
			)
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.intents.Take(ctx, intentID); err != nil && !errors.Is(err, payments.ErrIntentNotFound) {
		// The payment stands; the intent expires on its TTL.
		s.logger.Warn("failed to consume payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
	}

	publish(ctx, s.dispatcher, events.New(events.EventPaymentRecorded, payment.ID, actor.Identity, events.PaymentRecordedPayload{
		OfferID:       payment.OfferID,
		PropertyID:    payment.PropertyID,
		AgentEmail:    payment.AgentEmail,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
	}))
	return payment, nil
}

func (s *PaymentService) ListByBuyer(ctx context.Context, email string) ([]domain.Payment, error) {
	return wrapList(s.payments.ListByBuyer(ctx, email))
}

func (s *PaymentService) ListByAgent(ctx context.Context, email string) ([]domain.Payment, error) {
	return wrapList(s.payments.ListByAgent(ctx, email))
}

func intentError(err error, id string) error {
	if errors.Is(err, payments.ErrIntentNotFound) {
		return apperrors.NewNotFound("Payment intent", map[string]any{"intent_id": id})
	}
	return apperrors.NewInternalError(err)
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
