package bookings

import (
	"time"

	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "BOOKED"
	StatusShipped   BookingStatus = "SHIPPED"
	StatusDelivered BookingStatus = "DELIVERED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// ValidStatus reports whether the tag names a known status.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusBooked, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var transitions = map[BookingStatus][]BookingStatus{
	StatusBooked:  {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered, StatusCancelled},
}

// CanTransitionTo reports whether a move to next is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a confirmed shipment instance derived from a quotation. The
// header fields are copied from the source quotation at creation time and
// evolve independently afterwards; QuotationID is a back-reference, not
// ownership.
type Booking struct {
	ID                    string                  `json:"id"`
	QuotationID           string                  `json:"quotation_id"`
	CustomerName          string                  `json:"customer_name"`
	POL                   string                  `json:"pol"`
	POD                   string                  `json:"pod"`
	Equipment             string                  `json:"equipment"`
	Volume                string                  `json:"volume,omitempty"`
	Type                  quotations.ShipmentType `json:"type"`
	BuyRate               pricing.Money           `json:"buy_rate"`
	SellRate              pricing.Money           `json:"sell_rate"`
	ProfitAndLoss         pricing.Money           `json:"profit_and_loss"`
	Status                BookingStatus           `json:"status"`
	SelectedCarrierRateID *string                 `json:"selected_carrier_rate_id,omitempty"`
	Notes                 string                  `json:"notes,omitempty"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}
