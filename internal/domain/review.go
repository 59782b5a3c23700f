package domain

import "time"

// Review is a rating left on a property by the user identified by Email.
type Review struct {
	ID           string    `json:"_id,omitempty"`
	PropertyID   string    `json:"propertyId"`
	Email        string    `json:"email"`
	ReviewerName string    `json:"reviewerName,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}
