package quotations

import (
	"time"

	"github.com/harborline/harborline/internal/pricing"
)

// QuotationStatus is the lifecycle state of a quotation.
type QuotationStatus string

const (
	StatusDraft            QuotationStatus = "DRAFT"
	StatusSubmitted        QuotationStatus = "SUBMITTED"
	StatusBookingCompleted QuotationStatus = "BOOKING_COMPLETED"
	StatusCancelled        QuotationStatus = "CANCELLED"
)

// ShipmentType classifies the trade direction of a shipment.
type ShipmentType string

const (
	TypeImport     ShipmentType = "IMPORT"
	TypeExport     ShipmentType = "EXPORT"
	TypeCrossTrade ShipmentType = "CROSS_TRADE"
)

// ValidStatus reports whether the tag names a known status.
func ValidStatus(s QuotationStatus) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusBookingCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidType reports whether the tag names a known shipment type.
func ValidType(t ShipmentType) bool {
	switch t {
	case TypeImport, TypeExport, TypeCrossTrade:
		return true
	}
	return false
}

// userTransitions enumerates the status moves a user may request.
// BOOKING_COMPLETED is only ever entered by booking creation and left by
// booking deletion; both are system transitions.
var userTransitions = map[QuotationStatus][]QuotationStatus{
	StatusDraft:     {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusCancelled},
}

// CanTransitionTo reports whether a user-driven move to next is legal.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range userTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quotation is a priced proposal for a shipment, pre-booking.
type Quotation struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name"`
	POL            string          `json:"pol"`
	POD            string          `json:"pod"`
	Equipment      string          `json:"equipment"`
	Volume         string          `json:"volume,omitempty"`
	Type           ShipmentType    `json:"type"`
	BuyRate        *pricing.Money  `json:"buy_rate,omitempty"`
	SellRate       *pricing.Money  `json:"sell_rate,omitempty"`
	ProfitAndLoss  pricing.Money   `json:"profit_and_loss"`
	Status         QuotationStatus `json:"status"`
	SelectedRateID *string         `json:"selected_rate_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
