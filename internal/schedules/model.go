package schedules

import (
	"time"

	"github.com/harborline/harborline/internal/pricing"
)

// Schedule is a sailing maintained by the operations desk.
type Schedule struct {
	ID          string    `json:"id"`
	Carrier     string    `json:"carrier"`
	Vessel      string    `json:"vessel"`
	Voyage      string    `json:"voyage"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	ETD         time.Time `json:"etd"`
	ETA         time.Time `json:"eta"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScheduleRate is a carrier's quoted offer for a route: the buy-side rate
// and remaining capacity. Offers are read-only once issued; the pricing
// workflows present them as candidates and never mutate them.
type ScheduleRate struct {
	ID            string        `json:"id"`
	Carrier       string        `json:"carrier"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	VoyageDetails string        `json:"voyage_details"`
	BuyRate       pricing.Money `json:"buy_rate"`
	Allocation    int           `json:"allocation"`
}
