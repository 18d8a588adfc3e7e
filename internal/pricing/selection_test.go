package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationSelectionRules(t *testing.T) {
	fields := RateFields{SellRate: Ptr(Cents(150000))}

	QuotationSelection.ApplySelect(&fields, "SR-000001", Cents(100000))
	require.NotNil(t, fields.SelectedRateID)
	assert.Equal(t, "SR-000001", *fields.SelectedRateID)
	require.NotNil(t, fields.BuyRate)
	assert.Equal(t, Cents(100000), *fields.BuyRate)
	assert.Nil(t, fields.SellRate, "margin must be re-entered after selection")

	QuotationSelection.ApplyDeselect(&fields)
	assert.Nil(t, fields.SelectedRateID)
	assert.Nil(t, fields.BuyRate)
}

func TestBookingSelectionRules(t *testing.T) {
	fields := RateFields{SellRate: Ptr(Cents(150000))}

	BookingSelection.ApplySelect(&fields, "SR-000002", Cents(90000))
	require.NotNil(t, fields.BuyRate)
	assert.Equal(t, Cents(90000), *fields.BuyRate)
	require.NotNil(t, fields.SellRate, "inherited sell rate survives selection")
	assert.Equal(t, Cents(150000), *fields.SellRate)

	BookingSelection.ApplyDeselect(&fields)
	assert.Nil(t, fields.SelectedRateID)
	require.NotNil(t, fields.BuyRate)
	assert.Equal(t, Cents(0), *fields.BuyRate, "booking deselect resets to zero")
}
