package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/estate-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOfferCreated          EventType = "offer_created"
	EventOfferStatusChanged    EventType = "offer_status_changed"
	EventPaymentRecorded       EventType = "payment_recorded"
	EventPropertyStatusChanged EventType = "property_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	Actor      string      `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, resourceID, actor string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// OfferCreatedPayload payload.
type OfferCreatedPayload struct {
	PropertyID  string  `json:"property_id"`
	AgentEmail  string  `json:"agent_email"`
	BuyerEmail  string  `json:"buyer_email"`
	OfferAmount float64 `json:"offer_amount"`
}

// OfferStatusChangedPayload payload.
type OfferStatusChangedPayload struct {
	PropertyID string             `json:"property_id"`
	BuyerEmail string             `json:"buyer_email"`
	NewStatus  domain.OfferStatus `json:"new_status"`
	// Rejected counts sibling offers closed by an acceptance.
	Rejected int64 `json:"rejected,omitempty"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	OfferID       string  `json:"offer_id"`
	PropertyID    string  `json:"property_id"`
	AgentEmail    string  `json:"agent_email"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// PropertyStatusChangedPayload payload.
type PropertyStatusChangedPayload struct {
	AgentEmail string                `json:"agent_email"`
	NewStatus  domain.PropertyStatus `json:"new_status"`
}
