// Package payments holds the opaque payment gateway boundary and the store of
// pending payment intents used by the two-phase purchase flow.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrGatewayUnavailable is returned while the gateway circuit is open.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// IntentRequest asks the gateway to reserve a charge.
type IntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Intent is the gateway's handle for a pending charge.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway is the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// LocalGateway issues intents without contacting a processor. It is used in
// development and tests.
type LocalGateway struct {
	logger *zap.Logger
}

// NewLocalGateway builds the stub gateway.
func NewLocalGateway(logger *zap.Logger) *LocalGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalGateway{logger: logger}
}

func (g *LocalGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", req.AmountCents)
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	g.logger.Debug("local payment intent created",
		zap.String("intent_id", id),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("currency", req.Currency))
	return &Intent{ID: id, ClientSecret: id + "_secret_" + uuid.NewString()}, nil
}

// BreakerConfig tunes the gateway circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type breakerGateway struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[*Intent]
}

// WithCircuitBreaker stops calling next after FailureThreshold consecutive
// failures until OpenTimeout has elapsed.
func WithCircuitBreaker(next Gateway, cfg BreakerConfig, logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment gateway breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &breakerGateway{next: next, cb: gobreaker.NewCircuitBreaker[*Intent](settings)}
}

func (g *breakerGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	intent, err := g.cb.Execute(func() (*Intent, error) {
		return g.next.CreateIntent(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrGatewayUnavailable
	}
	return intent, err
}
