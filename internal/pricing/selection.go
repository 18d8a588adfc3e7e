package pricing

// DeselectPolicy names what happens to the buy rate when a previously
// chosen candidate rate is deselected. The two workflows historically
// behaved differently here; keeping both as named policies preserves
// the observed behavior of each.
type DeselectPolicy int

const (
	// ClearToUndefined removes the buy rate entirely (quotation workflow).
	ClearToUndefined DeselectPolicy = iota
	// ResetToZero sets the buy rate to 0.00 (booking workflow).
	ResetToZero
)

// RateFields is the slice of a workflow draft owned by the rate-selection
// step.
type RateFields struct {
	SelectedRateID *string
	BuyRate        *Money
	SellRate       *Money
}

// SelectionRules parameterize the shared rate-selection step.
type SelectionRules struct {
	// ClearSellOnSelect forces deliberate re-entry of the margin after a
	// candidate is chosen.
	ClearSellOnSelect bool
	DeselectPolicy    DeselectPolicy
}

// QuotationSelection is the rule set of the quotation pricing workflow.
var QuotationSelection = SelectionRules{ClearSellOnSelect: true, DeselectPolicy: ClearToUndefined}

// BookingSelection is the rule set of the booking pricing workflow. The
// sell rate is inherited from the source quotation and survives selection.
var BookingSelection = SelectionRules{ClearSellOnSelect: false, DeselectPolicy: ResetToZero}

// ApplySelect records a candidate choice: the buy rate mirrors the
// candidate's offer.
func (r SelectionRules) ApplySelect(f *RateFields, rateID string, buy Money) {
	f.SelectedRateID = &rateID
	f.BuyRate = Ptr(buy)
	if r.ClearSellOnSelect {
		f.SellRate = nil
	}
}

// ApplyDeselect clears the candidate choice per the configured policy.
func (r SelectionRules) ApplyDeselect(f *RateFields) {
	f.SelectedRateID = nil
	switch r.DeselectPolicy {
	case ResetToZero:
		f.BuyRate = Ptr(0)
	default:
		f.BuyRate = nil
	}
}
