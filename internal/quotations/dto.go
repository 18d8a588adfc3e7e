package quotations

import "github.com/harborline/harborline/internal/pricing"

// CreateQuotationRequest carries the full field set of a new quotation.
type CreateQuotationRequest struct {
	CustomerName   string          `json:"customer_name" validate:"required"`
	POL            string          `json:"pol" validate:"required"`
	POD            string          `json:"pod" validate:"required"`
	Equipment      string          `json:"equipment" validate:"required"`
	Volume         string          `json:"volume"`
	Type           ShipmentType    `json:"type" validate:"required"`
	Status         QuotationStatus `json:"status" validate:"required"`
	BuyRate        *pricing.Money  `json:"buy_rate,omitempty"`
	SellRate       *pricing.Money  `json:"sell_rate,omitempty"`
	SelectedRateID *string         `json:"selected_rate_id,omitempty"`
	Notes          string          `json:"notes"`
}

// UpdateQuotationRequest is a partial update; nil fields are left
// untouched. The Clear flags express "remove this value", which a nil
// pointer cannot.
type UpdateQuotationRequest struct {
	CustomerName   *string          `json:"customer_name,omitempty"`
	POL            *string          `json:"pol,omitempty"`
	POD            *string          `json:"pod,omitempty"`
	Equipment      *string          `json:"equipment,omitempty"`
	Volume         *string          `json:"volume,omitempty"`
	Type           *ShipmentType    `json:"type,omitempty"`
	Status         *QuotationStatus `json:"status,omitempty"`
	BuyRate        *pricing.Money   `json:"buy_rate,omitempty"`
	SellRate       *pricing.Money   `json:"sell_rate,omitempty"`
	SelectedRateID *string          `json:"selected_rate_id,omitempty"`
	Notes          *string          `json:"notes,omitempty"`

	ClearBuyRate      bool `json:"clear_buy_rate,omitempty"`
	ClearSellRate     bool `json:"clear_sell_rate,omitempty"`
	ClearSelectedRate bool `json:"clear_selected_rate,omitempty"`
}

// ListQuotationsRequest filters the quotation listing.
type ListQuotationsRequest struct {
	Page    int
	PerPage int
	Term    string
	Status  *QuotationStatus
}
