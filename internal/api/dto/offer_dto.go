package dto

// OfferRequest is a buyer's bid on a listing.
type OfferRequest struct {
	PropertyID  string  `json:"propertyId" validate:"required"`
	OfferAmount float64 `json:"offerAmount" validate:"gt=0"`
	BuyerName   string  `json:"buyerName" validate:"max=120"`
	BuyingDate  string  `json:"buyingDate" validate:"omitempty,datetime=2006-01-02"`
}
