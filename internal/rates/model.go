package rates

import (
	"time"

	"github.com/harborline/harborline/internal/pricing"
)

// BuyRate is a carrier cost rate maintained by the operations desk. It is
// reference data: quotations and bookings never link to it directly.
type BuyRate struct {
	ID          string        `json:"id"`
	Carrier     string        `json:"carrier"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Equipment   string        `json:"equipment"`
	Rate        pricing.Money `json:"rate"`
	ValidFrom   time.Time     `json:"valid_from"`
	ValidTo     time.Time     `json:"valid_to"`
	Active      bool          `json:"active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
