package model

import "time"

// ServiceCategory groups services in the catalog.
type ServiceCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service is a bookable household service.
type Service struct {
	ID               string           `json:"id"`
	CategoryID       string           `json:"category_id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Icon             string           `json:"icon"`
	BasePrice        Money            `json:"base_price_chf"`
	PriceUnit        string           `json:"price_unit"`
	DurationMinutes  int              `json:"duration_minutes"`
	Popular          bool             `json:"popular"`
	Active           bool             `json:"active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Category         *ServiceCategory `json:"service_categories,omitempty"`
}

// Provider is a vetted professional who can be assigned to a booking line.
type Provider struct {
	ID           string  `json:"id"`
	CompanyName  string  `json:"company_name,omitempty"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Verified     bool    `json:"verified"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}
