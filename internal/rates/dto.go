package rates

import (
	"time"

	"github.com/harborline/harborline/internal/pricing"
)

// CreateBuyRateRequest carries the fields of a new buy rate.
type CreateBuyRateRequest struct {
	Carrier     string        `json:"carrier" validate:"required"`
	Origin      string        `json:"origin" validate:"required"`
	Destination string        `json:"destination" validate:"required"`
	Equipment   string        `json:"equipment" validate:"required"`
	Rate        pricing.Money `json:"rate"`
	ValidFrom   time.Time     `json:"valid_from" validate:"required"`
	ValidTo     time.Time     `json:"valid_to" validate:"required"`
}

// UpdateBuyRateRequest is a partial update; nil fields are left untouched.
type UpdateBuyRateRequest struct {
	Carrier     *string        `json:"carrier,omitempty"`
	Origin      *string        `json:"origin,omitempty"`
	Destination *string        `json:"destination,omitempty"`
	Equipment   *string        `json:"equipment,omitempty"`
	Rate        *pricing.Money `json:"rate,omitempty"`
	ValidFrom   *time.Time     `json:"valid_from,omitempty"`
	ValidTo     *time.Time     `json:"valid_to,omitempty"`
	Active      *bool          `json:"active,omitempty"`
}

// ListBuyRatesRequest filters the buy-rate listing.
type ListBuyRatesRequest struct {
	Page          int
	PerPage       int
	Term          string
	IncludeClosed bool
}
