package bookings

import "github.com/harborline/harborline/internal/pricing"

// CreateBookingRequest seeds a booking from a quotation. Header fields
// are not part of the request; they are copied from the source quotation
// by the service. An absent buy rate is coerced to zero.
type CreateBookingRequest struct {
	QuotationID           string         `json:"quotation_id" validate:"required"`
	BuyRate               *pricing.Money `json:"buy_rate,omitempty"`
	SelectedCarrierRateID *string        `json:"selected_carrier_rate_id,omitempty"`
	Notes                 string         `json:"notes"`
}

// UpdateBookingRequest is a partial update; nil fields are left untouched.
type UpdateBookingRequest struct {
	CustomerName          *string        `json:"customer_name,omitempty"`
	POL                   *string        `json:"pol,omitempty"`
	POD                   *string        `json:"pod,omitempty"`
	Equipment             *string        `json:"equipment,omitempty"`
	Volume                *string        `json:"volume,omitempty"`
	BuyRate               *pricing.Money `json:"buy_rate,omitempty"`
	SellRate              *pricing.Money `json:"sell_rate,omitempty"`
	Status                *BookingStatus `json:"status,omitempty"`
	SelectedCarrierRateID *string        `json:"selected_carrier_rate_id,omitempty"`
	Notes                 *string        `json:"notes,omitempty"`

	ClearSelectedCarrierRate bool `json:"clear_selected_carrier_rate,omitempty"`
}

// ListBookingsRequest filters the booking listing.
type ListBookingsRequest struct {
	Page    int
	PerPage int
	Term    string
	Status  *BookingStatus
}
