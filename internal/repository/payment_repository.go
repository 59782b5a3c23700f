package repository

import (
	"context"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

// PaymentRepository stores completed payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Payment, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]domain.Payment, error)
}

type paymentRepository struct {
	payments docstore.Collection
}

// NewPaymentRepository builds the repository.
func NewPaymentRepository(store docstore.Store) PaymentRepository {
	return &paymentRepository{payments: store.Collection(PaymentsCollection)}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	res, err := r.payments.InsertOne(ctx, payment)
	if err != nil {
		return err
	}
	payment.ID = res.InsertedID
	return nil
}

func (r *paymentRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]domain.Payment, error) {
	return r.find(ctx, docstore.Filter{"buyerEmail": buyerEmail})
}

func (r *paymentRepository) ListByAgent(ctx context.Context, agentEmail string) ([]domain.Payment, error) {
	return r.find(ctx, docstore.Filter{"agentEmail": agentEmail})
}

func (r *paymentRepository) find(ctx context.Context, filter docstore.Filter) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := r.payments.Find(ctx, filter, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
