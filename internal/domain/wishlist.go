package domain

import "time"

// WishlistItem is a saved property for the user identified by Email.
type WishlistItem struct {
	ID         string    `json:"_id,omitempty"`
	Email      string    `json:"email"`
	PropertyID string    `json:"propertyId"`
	Title      string    `json:"propertyTitle,omitempty"`
	Location   string    `json:"location,omitempty"`
	AgentEmail string    `json:"agentEmail,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}
