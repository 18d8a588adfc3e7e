package schedules

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/platform/httpx"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func seedOffers() []ScheduleRate {
	offers := []ScheduleRate{
		{ID: "SR-000001", Carrier: "Maersk", Origin: "Singapore", Destination: "Hamburg", BuyRate: 1250_00},
		{ID: "SR-000002", Carrier: "MSC", Origin: "Singapore", Destination: "Hamburg", BuyRate: 1190_00},
		{ID: "SR-000003", Carrier: "Evergreen", Origin: "Shanghai", Destination: "Rotterdam", BuyRate: 1380_00},
		{ID: "SR-000004", Carrier: "Hapag-Lloyd", Origin: "Jakarta", Destination: "Hamburg", BuyRate: 1580_00},
	}
	return offers
}

func TestSearchRatesMatchesBySubstring(t *testing.T) {
	repo := NewMemoryRateRepository(seedOffers(), 0, 10)
	ctx := context.Background()

	got, err := repo.SearchRates(ctx, RateSearchRequest{Origin: "singa", Destination: "ham"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rate := range got {
		assert.Equal(t, "Singapore", rate.Origin)
		assert.Equal(t, "Hamburg", rate.Destination)
	}
}

func TestSearchRatesEmptyTermMatchesEverything(t *testing.T) {
	repo := NewMemoryRateRepository(seedOffers(), 0, 10)
	got, err := repo.SearchRates(context.Background(), RateSearchRequest{})
	require.NoError(t, err)
	assert.Len(t, got, len(seedOffers()))
}

func TestSearchRatesZeroMatchesIsNotAnError(t *testing.T) {
	repo := NewMemoryRateRepository(seedOffers(), 0, 10)
	got, err := repo.SearchRates(context.Background(), RateSearchRequest{Origin: "Atlantis", Destination: "Hamburg"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchRatesCapsResults(t *testing.T) {
	offers := make([]ScheduleRate, 0, 25)
	for i := 0; i < 25; i++ {
		offers = append(offers, ScheduleRate{
			ID:          fmt.Sprintf("SR-%06d", i+1),
			Carrier:     "Maersk",
			Origin:      "Singapore",
			Destination: "Hamburg",
		})
	}
	repo := NewMemoryRateRepository(offers, 0, 10)
	got, err := repo.SearchRates(context.Background(), RateSearchRequest{Destination: "ham"})
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestServiceRejectsArrivalBeforeDeparture(t *testing.T) {
	svc := NewService(NewMemoryRepository(0, fixedClock), NewMemoryRateRepository(nil, 0, 10))
	ctx := context.Background()

	etd := fixedClock().AddDate(0, 0, 7)
	_, err := svc.Create(ctx, CreateScheduleRequest{
		Carrier:     "Maersk",
		Vessel:      "Morten Maersk",
		Voyage:      "412W",
		Origin:      "Singapore",
		Destination: "Hamburg",
		ETD:         etd,
		ETA:         etd.AddDate(0, 0, -1),
	})
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "eta")
}

func TestExpireBeforeDeactivatesArrivedSailings(t *testing.T) {
	repo := NewMemoryRepository(0, fixedClock)
	svc := NewService(repo, NewMemoryRateRepository(nil, 0, 10))
	ctx := context.Background()

	past, err := svc.Create(ctx, CreateScheduleRequest{
		Carrier: "Maersk", Vessel: "Morten Maersk", Voyage: "411W",
		Origin: "Singapore", Destination: "Hamburg",
		ETD: fixedClock().AddDate(0, -2, 0), ETA: fixedClock().AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	future, err := svc.Create(ctx, CreateScheduleRequest{
		Carrier: "Maersk", Vessel: "Morten Maersk", Voyage: "412W",
		Origin: "Singapore", Destination: "Hamburg",
		ETD: fixedClock().AddDate(0, 0, 7), ETA: fixedClock().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	expired, err := svc.ExpireBefore(ctx, fixedClock())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := svc.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	got, err = svc.Get(ctx, future.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}
