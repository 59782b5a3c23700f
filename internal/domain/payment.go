package domain

import "time"

// PaymentIntent is the first phase of a purchase, held until the buyer confirms.
type PaymentIntent struct {
	ID           string    `json:"id"`
	ClientSecret string    `json:"clientSecret"`
	OfferID      string    `json:"offerId"`
	BuyerEmail   string    `json:"buyerEmail"`
	AmountCents  int64     `json:"amountCents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Payment is a completed purchase of an accepted offer.
type Payment struct {
	ID            string    `json:"_id,omitempty"`
	OfferID       string    `json:"offerId"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	BuyerEmail    string    `json:"buyerEmail"`
	AgentEmail    string    `json:"agentEmail"`
	Amount        float64   `json:"amount"`
	IntentID      string    `json:"intentId"`
	TransactionID string    `json:"transactionId"`
	PaidAt        time.Time `json:"paidAt"`
}
