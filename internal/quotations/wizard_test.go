package quotations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/schedules"
)

type stubRateSearcher struct {
	rates   []schedules.ScheduleRate
	lastReq schedules.RateSearchRequest
	calls   int
}

func (s *stubRateSearcher) SearchRates(ctx context.Context, req schedules.RateSearchRequest) ([]schedules.ScheduleRate, error) {
	s.lastReq = req
	s.calls++
	return s.rates, nil
}

func testOffers() []schedules.ScheduleRate {
	return []schedules.ScheduleRate{
		{ID: "SR-000001", Carrier: "Maersk", Origin: "Singapore", Destination: "Hamburg", BuyRate: 1250_00, Allocation: 40},
		{ID: "SR-000002", Carrier: "MSC", Origin: "Singapore", Destination: "Hamburg", BuyRate: 1190_00, Allocation: 25},
	}
}

func newTestWizardManager() (*WizardManager, *Service, *stubRateSearcher, *testClock) {
	svc, clock := newTestService()
	rates := &stubRateSearcher{rates: testOffers()}
	return NewWizardManager(svc, rates, clock.Now, time.Hour), svc, rates, clock
}

func fillRoute(t *testing.T, m *WizardManager, id string) {
	t.Helper()
	customer := "Meridian Textiles GmbH"
	pol, pod, equipment := "Singapore", "Hamburg", "40HC"
	typ := TypeExport
	_, err := m.UpdateDraft(id, DraftPatch{
		CustomerName: &customer,
		POL:          &pol,
		POD:          &pod,
		Equipment:    &equipment,
		Type:         &typ,
	})
	require.NoError(t, err)
}

func TestWizardNextGatesOnRouteStep(t *testing.T) {
	m, _, rates, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepCollectingRoute, wiz.Step)

	_, err = m.Next(ctx, wiz.ID)
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "customer_name")

	got, err := m.Get(wiz.ID)
	require.NoError(t, err)
	assert.Equal(t, StepCollectingRoute, got.Step)
	assert.NotEmpty(t, got.FieldErrors)
	assert.Zero(t, rates.calls)
}

func TestWizardAutoSearchesOnEnteringRateStep(t *testing.T) {
	m, _, rates, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)

	got, err := m.Next(ctx, wiz.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectingRate, got.Step)
	assert.Equal(t, 1, rates.calls)
	assert.Equal(t, "Singapore", rates.lastReq.Origin)
	assert.Equal(t, "Hamburg", rates.lastReq.Destination)
	assert.Len(t, got.Candidates, 2)
}

func TestWizardSelectMirrorsBuyAndClearsSell(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	_, err = m.UpdateDraft(wiz.ID, DraftPatch{SellRate: pricing.Ptr(1600_00)})
	require.NoError(t, err)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)

	got, err := m.SelectRate(wiz.ID, "SR-000002")
	require.NoError(t, err)
	require.NotNil(t, got.Draft.SelectedRateID)
	assert.Equal(t, "SR-000002", *got.Draft.SelectedRateID)
	require.NotNil(t, got.Draft.BuyRate)
	assert.Equal(t, pricing.Money(1190_00), *got.Draft.BuyRate)
	// The margin must be re-entered deliberately after picking a carrier.
	assert.Nil(t, got.Draft.SellRate)
}

func TestWizardManualBuyEditIgnoredWhileSelected(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)
	_, err = m.SelectRate(wiz.ID, "SR-000001")
	require.NoError(t, err)

	got, err := m.UpdateDraft(wiz.ID, DraftPatch{BuyRate: pricing.Ptr(1_00)})
	require.NoError(t, err)
	require.NotNil(t, got.Draft.BuyRate)
	assert.Equal(t, pricing.Money(1250_00), *got.Draft.BuyRate)
}

func TestWizardDeselectClearsBuy(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)
	_, err = m.SelectRate(wiz.ID, "SR-000001")
	require.NoError(t, err)

	got, err := m.DeselectRate(wiz.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Draft.SelectedRateID)
	assert.Nil(t, got.Draft.BuyRate)
}

func TestWizardSelectRequiresCurrentCandidate(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)

	_, err = m.SelectRate(wiz.ID, "SR-999999")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestWizardSubmitSnapsBackOnIncompleteRates(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	status := StatusSubmitted
	_, err = m.UpdateDraft(wiz.ID, DraftPatch{Status: &status})
	require.NoError(t, err)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)

	_, err = m.Submit(ctx, wiz.ID)
	var ve *httpx.ValidationError
	require.ErrorAs(t, err, &ve)

	got, err := m.Get(wiz.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectingRate, got.Step)
	assert.Contains(t, got.FieldErrors, "buy_rate")
	assert.Contains(t, got.FieldErrors, "sell_rate")
}

func TestWizardSubmitPersistsAndDiscards(t *testing.T) {
	m, svc, _, _ := newTestWizardManager()
	ctx := context.Background()

	wiz, err := m.Start(ctx)
	require.NoError(t, err)
	fillRoute(t, m, wiz.ID)
	status := StatusSubmitted
	_, err = m.UpdateDraft(wiz.ID, DraftPatch{Status: &status})
	require.NoError(t, err)
	_, err = m.Next(ctx, wiz.ID)
	require.NoError(t, err)
	_, err = m.SelectRate(wiz.ID, "SR-000001")
	require.NoError(t, err)
	_, err = m.UpdateDraft(wiz.ID, DraftPatch{SellRate: pricing.Ptr(1500_00)})
	require.NoError(t, err)

	saved, err := m.Submit(ctx, wiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "QTN-001001", saved.ID)
	assert.Equal(t, StatusSubmitted, saved.Status)
	assert.Equal(t, pricing.Money(250_00), saved.ProfitAndLoss)
	require.NotNil(t, saved.SelectedRateID)
	assert.Equal(t, "SR-000001", *saved.SelectedRateID)

	_, err = m.Get(wiz.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	stored, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ProfitAndLoss, stored.ProfitAndLoss)
}

func TestWizardEditFlowSeedsFromQuotation(t *testing.T) {
	m, svc, _, _ := newTestWizardManager()
	ctx := context.Background()

	req := draftRequest()
	req.Notes = "weekly departures"
	q, err := svc.Create(ctx, req)
	require.NoError(t, err)

	wiz, err := m.StartFromQuotation(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, wiz.QuotationID)
	assert.Equal(t, q.CustomerName, wiz.Draft.CustomerName)
	assert.Equal(t, "weekly departures", wiz.Draft.Notes)
}

func TestWizardEditFlowUnknownQuotation(t *testing.T) {
	m, _, _, _ := newTestWizardManager()
	_, err := m.StartFromQuotation(context.Background(), "QTN-999999")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestWizardPrunesExpiredInstances(t *testing.T) {
	m, _, _, clock := newTestWizardManager()
	ctx := context.Background()

	stale, err := m.Start(ctx)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	// Starting a new instance triggers the prune pass.
	_, err = m.Start(ctx)
	require.NoError(t, err)

	_, err = m.Get(stale.ID)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
