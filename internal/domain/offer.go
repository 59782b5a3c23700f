package domain

import "time"

// OfferStatus is the lifecycle of a buyer's offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusBought   OfferStatus = "bought"
)

// Offer is a bid by BuyerEmail on a property listed by AgentEmail.
type Offer struct {
	ID            string      `json:"_id,omitempty"`
	PropertyID    string      `json:"propertyId"`
	PropertyTitle string      `json:"propertyTitle"`
	Location      string      `json:"location"`
	AgentEmail    string      `json:"agentEmail"`
	BuyerEmail    string      `json:"buyerEmail"`
	BuyerName     string      `json:"buyerName,omitempty"`
	OfferAmount   float64     `json:"offerAmount"`
	BuyingDate    string      `json:"buyingDate,omitempty"`
	Status        OfferStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
}
