package dto

// PaymentIntentRequest starts payment for an accepted offer.
type PaymentIntentRequest struct {
	OfferID string `json:"offerId" validate:"required"`
}

// PaymentIntentResponse hands the client secret to the browser.
type PaymentIntentResponse struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
	Currency     string `json:"currency"`
}

// PaymentRecordRequest confirms a completed gateway payment.
type PaymentRecordRequest struct {
	IntentID      string `json:"intentId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required,max=200"`
}
