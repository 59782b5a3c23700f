package dto

// ReviewRequest creates a review as the caller.
type ReviewRequest struct {
	PropertyID   string `json:"propertyId" validate:"required"`
	ReviewerName string `json:"reviewerName" validate:"max=120"`
	Rating       int    `json:"rating" validate:"min=1,max=5"`
	Comment      string `json:"comment" validate:"required,max=2000"`
}
