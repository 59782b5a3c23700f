package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOfferCreated, n.handleOfferCreated)
	n.dispatcher.Subscribe(events.EventOfferStatusChanged, n.handleOfferStatusChanged)
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
	n.dispatcher.Subscribe(events.EventPropertyStatusChanged, n.handlePropertyStatusChanged)
}

// The agent hears about new bids by email.
func (n *NotificationService) handleOfferCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("OfferCreated", zap.String("offer_id", event.ResourceID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.OfferCreatedPayload); ok {
		n.sendEmailNotificationStub(ctx, event, p.AgentEmail)
	}
	return nil
}

func (n *NotificationService) handleOfferStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("OfferStatusChanged", zap.String("offer_id", event.ResourceID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.OfferStatusChangedPayload); ok {
		n.sendEmailNotificationStub(ctx, event, p.BuyerEmail)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentRecorded(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentRecorded", zap.String("payment_id", event.ResourceID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.PaymentRecordedPayload); ok {
		n.sendEmailNotificationStub(ctx, event, p.AgentEmail)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePropertyStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PropertyStatusChanged", zap.String("property_id", event.ResourceID), zap.Any("payload", event.Payload))
	if p, ok := event.Payload.(events.PropertyStatusChangedPayload); ok {
		n.sendEmailNotificationStub(ctx, event, p.AgentEmail)
	}
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || to == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("resource_id", event.ResourceID),
		zap.String("event_type", string(event.Type)))
}
