package dto

import "github.com/spec-kit/estate-service/internal/domain"

// PropertyRequest is the full set of agent-editable listing fields.
type PropertyRequest struct {
	PropertyTitle string  `json:"propertyTitle" validate:"required,max=200"`
	Location      string  `json:"location" validate:"required,max=200"`
	Image         string  `json:"image" validate:"omitempty,url"`
	Description   string  `json:"description" validate:"max=5000"`
	MinPrice      float64 `json:"minPrice" validate:"gt=0"`
	MaxPrice      float64 `json:"maxPrice" validate:"gtefield=MinPrice"`
	AgentName     string  `json:"agentName" validate:"max=120"`
}

// PropertyPatchRequest updates only the fields present.
type PropertyPatchRequest struct {
	PropertyTitle *string  `json:"propertyTitle" validate:"omitempty,min=1,max=200"`
	Location      *string  `json:"location" validate:"omitempty,min=1,max=200"`
	Image         *string  `json:"image" validate:"omitempty,url"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	MinPrice      *float64 `json:"minPrice" validate:"omitempty,gt=0"`
	MaxPrice      *float64 `json:"maxPrice" validate:"omitempty,gt=0"`
	AgentName     *string  `json:"agentName" validate:"omitempty,max=120"`
}

// PropertyStatusRequest is the admin verification decision.
type PropertyStatusRequest struct {
	Status domain.PropertyStatus `json:"status" validate:"required,oneof=pending verified rejected"`
}
