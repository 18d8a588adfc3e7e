package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/bookings"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
)

type stubQuotations struct {
	items []quotations.Quotation
	calls int
}

func (s *stubQuotations) SearchByText(ctx context.Context, term string) ([]quotations.Quotation, error) {
	s.calls++
	return s.items, nil
}

type stubBookings struct {
	items []bookings.Booking
	calls int
}

func (s *stubBookings) SearchByText(ctx context.Context, term string) ([]bookings.Booking, error) {
	s.calls++
	return s.items, nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService() (*Service, *stubQuotations, *stubBookings, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	qs := &stubQuotations{items: []quotations.Quotation{
		{ID: "QTN-001001", Status: quotations.StatusDraft, ProfitAndLoss: 100_00, CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "QTN-001002", Status: quotations.StatusSubmitted, ProfitAndLoss: 250_00, CreatedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "QTN-001003", Status: quotations.StatusSubmitted, ProfitAndLoss: -40_00, CreatedAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
	}}
	bs := &stubBookings{items: []bookings.Booking{
		{ID: "BKNG-000001", Status: bookings.StatusBooked, ProfitAndLoss: 310_00, CreatedAt: time.Date(2026, 2, 21, 0, 0, 0, 0, time.UTC)},
	}}
	return NewService(qs, bs, clock.Now, 10*time.Second), qs, bs, clock
}

func TestStatsAggregates(t *testing.T) {
	svc, _, _, _ := newTestService()
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.QuotationsByStatus[quotations.StatusDraft])
	assert.Equal(t, 2, got.QuotationsByStatus[quotations.StatusSubmitted])
	assert.Equal(t, 1, got.BookingsByStatus[bookings.StatusBooked])
	assert.Equal(t, pricing.Money(310_00), got.QuotationProfit)
	assert.Equal(t, pricing.Money(310_00), got.BookingProfit)
	assert.Equal(t, []MonthlyCount{{Month: "2026-01", Count: 1}, {Month: "2026-02", Count: 2}}, got.MonthlyQuotations)
	assert.Equal(t, []MonthlyCount{{Month: "2026-02", Count: 1}}, got.MonthlyBookings)
}

func TestStatsSnapshotAbsorbsRepeatReads(t *testing.T) {
	svc, qs, bs, clock := newTestService()
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, qs.calls)
	assert.Equal(t, 1, bs.calls)

	clock.Advance(11 * time.Second)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, qs.calls)
	assert.Equal(t, 2, bs.calls)
}
