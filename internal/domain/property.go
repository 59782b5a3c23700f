package domain

import "time"

// PropertyStatus tracks admin review of a listing.
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusVerified PropertyStatus = "verified"
	PropertyStatusRejected PropertyStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusPending, PropertyStatusVerified, PropertyStatusRejected:
		return true
	}
	return false
}

// Property is a listing owned by the agent identified by AgentEmail.
type Property struct {
	ID            string         `json:"_id,omitempty"`
	PropertyTitle string         `json:"propertyTitle"`
	Location      string         `json:"location"`
	Image         string         `json:"image,omitempty"`
	Description   string         `json:"description,omitempty"`
	MinPrice      float64        `json:"minPrice"`
	MaxPrice      float64        `json:"maxPrice"`
	AgentName     string         `json:"agentName"`
	AgentEmail    string         `json:"agentEmail"`
	Status        PropertyStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// PriceInRange reports whether amount falls within the advertised price range.
func (p *Property) PriceInRange(amount float64) bool {
	return amount >= p.MinPrice && amount <= p.MaxPrice
}
