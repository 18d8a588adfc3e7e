package bookings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFixture() (*Service, *quotations.Service, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	quotationSvc := quotations.NewService(quotations.NewMemoryRepository(0, clock.Now))
	repo := NewMemoryRepository(0, clock.Now)
	return NewService(discardLogger(), repo, quotationSvc), quotationSvc, clock
}

func submittedQuotation(t *testing.T, svc *quotations.Service) quotations.Quotation {
	t.Helper()
	q, err := svc.Create(context.Background(), quotations.CreateQuotationRequest{
		CustomerName: "Meridian Textiles GmbH",
		POL:          "Singapore",
		POD:          "Hamburg",
		Equipment:    "40HC",
		Volume:       "2 x 40HC",
		Type:         quotations.TypeExport,
		Status:       quotations.StatusSubmitted,
		BuyRate:      pricing.Ptr(1250_00),
		SellRate:     pricing.Ptr(1500_00),
	})
	require.NoError(t, err)
	return q
}

func TestCreateCopiesHeaderAndMarksQuotation(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	b, err := svc.Create(ctx, CreateBookingRequest{
		QuotationID: q.ID,
		BuyRate:     pricing.Ptr(1190_00),
	})
	require.NoError(t, err)
	assert.Equal(t, "BKNG-000001", b.ID)
	assert.Equal(t, q.ID, b.QuotationID)
	assert.Equal(t, q.CustomerName, b.CustomerName)
	assert.Equal(t, q.POL, b.POL)
	assert.Equal(t, q.POD, b.POD)
	assert.Equal(t, q.Equipment, b.Equipment)
	assert.Equal(t, q.Volume, b.Volume)
	assert.Equal(t, q.Type, b.Type)
	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, pricing.Money(1500_00), b.SellRate)
	assert.Equal(t, pricing.Money(1190_00), b.BuyRate)
	assert.Equal(t, pricing.Money(310_00), b.ProfitAndLoss)

	source, err := quotationSvc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, quotations.StatusBookingCompleted, source.Status)
}

func TestCreateCoercesMissingBuyRateToZero(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(0), b.BuyRate)
	assert.Equal(t, pricing.Money(1500_00), b.ProfitAndLoss)
}

func TestCreateRejectsClosedQuotations(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	_, err := quotationSvc.Cancel(ctx, q.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestCreateRejectsAlreadyBookedQuotation(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	_, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestDeleteRevertsSourceQuotation(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	source, err := quotationSvc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, quotations.StatusSubmitted, source.Status)

	_, err = svc.Get(ctx, b.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteReportsStrandedQuotation(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)

	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)

	// Pull the quotation out from under the booking so compensation fails.
	_, err = quotationSvc.RevertToSubmitted(ctx, q.ID)
	require.NoError(t, err)
	deleted, err := quotationSvc.Delete(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Delete(ctx, b.ID)
	assert.True(t, deleted)
	var ce *CompensationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, q.ID, ce.QuotationID)

	// The deletion itself stands.
	_, err = svc.Get(ctx, b.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusBooked, StatusShipped, true},
		{StatusBooked, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusBooked, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusBooked, false},
		{StatusBooked, StatusDelivered, false},
		{StatusBooked, StatusBooked, true},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestLifecycleEndpointsFollowTransitions(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)
	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)

	_, err = svc.Deliver(ctx, b.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)

	shipped, err := svc.Ship(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, shipped.Status)

	delivered, err := svc.Deliver(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)

	_, err = svc.Cancel(ctx, b.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateRecomputesProfitAndLoss(t *testing.T) {
	svc, quotationSvc, clock := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)
	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID, BuyRate: pricing.Ptr(1250_00)})
	require.NoError(t, err)

	clock.Advance(time.Minute)

	got, err := svc.Update(ctx, b.ID, UpdateBookingRequest{BuyRate: pricing.Ptr(1600_00)})
	require.NoError(t, err)
	assert.Equal(t, pricing.Money(-100_00), got.ProfitAndLoss)
	assert.True(t, got.UpdatedAt.After(b.UpdatedAt))
}

func TestUpdateRejectsNegativeRates(t *testing.T) {
	svc, quotationSvc, _ := newTestFixture()
	ctx := context.Background()
	q := submittedQuotation(t, quotationSvc)
	b, err := svc.Create(ctx, CreateBookingRequest{QuotationID: q.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, UpdateBookingRequest{SellRate: pricing.Ptr(-1)})
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sell_rate")
}
