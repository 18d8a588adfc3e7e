package rates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/platform/httpx"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	return NewService(NewMemoryRepository(0, fixedClock))
}

func validRequest() CreateBuyRateRequest {
	return CreateBuyRateRequest{
		Carrier:     "Maersk",
		Origin:      "Singapore",
		Destination: "Hamburg",
		Equipment:   "40HC",
		Rate:        1250_00,
		ValidFrom:   fixedClock().AddDate(0, -1, 0),
		ValidTo:     fixedClock().AddDate(0, 2, 0),
	}
}

func TestCreateRejectsInvertedValidityWindow(t *testing.T) {
	svc := newTestService()
	req := validRequest()
	req.ValidFrom, req.ValidTo = req.ValidTo, req.ValidFrom

	_, err := svc.Create(context.Background(), req)
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "valid_to")
}

func TestCreateRejectsNegativeRate(t *testing.T) {
	svc := newTestService()
	req := validRequest()
	req.Rate = -1

	_, err := svc.Create(context.Background(), req)
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "rate")
}

func TestUpdateValidatesResultingWindow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	rate, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	badTo := rate.ValidFrom.AddDate(0, -1, 0)
	_, err = svc.Update(ctx, rate.ID, UpdateBuyRateRequest{ValidTo: &badTo})
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)

	got, err := svc.Get(ctx, rate.ID)
	require.NoError(t, err)
	assert.Equal(t, rate.ValidTo, got.ValidTo)
}

func TestListExcludesClosedByDefault(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	open, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	closed, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	inactive := false
	_, err = svc.Update(ctx, closed.ID, UpdateBuyRateRequest{Active: &inactive})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, ListBuyRatesRequest{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, open.ID, items[0].ID)

	_, total, err = svc.List(ctx, ListBuyRatesRequest{Page: 1, PerPage: 20, IncludeClosed: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestExpireBeforeClosesLapsedRates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	lapsed := validRequest()
	lapsed.ValidFrom = fixedClock().AddDate(0, -3, 0)
	lapsed.ValidTo = fixedClock().AddDate(0, -1, 0)
	stale, err := svc.Create(ctx, lapsed)
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	expired, err := svc.ExpireBefore(ctx, fixedClock())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := svc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	got, err = svc.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}
