package dto

// WishlistRequest adds a property to the caller's wishlist. Any email in the
// payload is ignored; the owner is always the caller.
type WishlistRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
}
