package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
	"github.com/harborline/harborline/internal/schedules"
	"github.com/harborline/harborline/internal/store"
)

// WizardStep names a state of the booking workflow.
type WizardStep string

const (
	StepSelectingQuotation   WizardStep = "SELECTING_QUOTATION"
	StepQuotationSummary     WizardStep = "QUOTATION_SUMMARY"
	StepSelectingCarrierRate WizardStep = "SELECTING_CARRIER_RATE"
	StepReviewAndSubmit      WizardStep = "REVIEW_AND_SUBMIT"
)

// RateSearcher is the slice of the schedules service the wizard needs.
type RateSearcher interface {
	SearchRates(ctx context.Context, req schedules.RateSearchRequest) ([]schedules.ScheduleRate, error)
}

// Draft is the unpersisted working copy a wizard instance accumulates.
// Header fields mirror the selected quotation; only the buy rate, carrier
// selection and notes are booking inputs. The record store is only
// touched at Submit.
type Draft struct {
	QuotationID           string                  `json:"quotation_id,omitempty"`
	CustomerName          string                  `json:"customer_name"`
	POL                   string                  `json:"pol"`
	POD                   string                  `json:"pod"`
	Equipment             string                  `json:"equipment"`
	Volume                string                  `json:"volume"`
	Type                  quotations.ShipmentType `json:"type"`
	BuyRate               *pricing.Money          `json:"buy_rate,omitempty"`
	SellRate              *pricing.Money          `json:"sell_rate,omitempty"`
	ProfitAndLoss         pricing.Money           `json:"profit_and_loss"`
	SelectedCarrierRateID *string                 `json:"selected_carrier_rate_id,omitempty"`
	Notes                 string                  `json:"notes"`
}

// DraftPatch merges user edits into a draft.
type DraftPatch struct {
	BuyRate *pricing.Money `json:"buy_rate,omitempty"`
	Notes   *string        `json:"notes,omitempty"`
}

// Wizard is one resumable instance of the booking workflow.
type Wizard struct {
	ID                  string                   `json:"id"`
	BookingID           string                   `json:"booking_id,omitempty"`
	Step                WizardStep               `json:"step"`
	Draft               Draft                    `json:"draft"`
	QuotationCandidates []quotations.Quotation   `json:"quotation_candidates"`
	RateCandidates      []schedules.ScheduleRate `json:"rate_candidates"`
	FieldErrors         map[string]string        `json:"field_errors,omitempty"`
	UpdatedAt           time.Time                `json:"-"`
}

// WizardManager owns the live booking wizard instances.
type WizardManager struct {
	service    *Service
	quotations QuotationSource
	rates      RateSearcher
	clock      store.Clock
	ttl        time.Duration

	mu        sync.Mutex
	instances map[string]*Wizard
}

// NewWizardManager constructs a manager. ttl bounds how long an
// untouched instance survives; zero means one hour.
func NewWizardManager(service *Service, quotations QuotationSource, rates RateSearcher, clock store.Clock, ttl time.Duration) *WizardManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &WizardManager{
		service:    service,
		quotations: quotations,
		rates:      rates,
		clock:      clock,
		ttl:        ttl,
		instances:  make(map[string]*Wizard),
	}
}

// Start opens a fresh wizard at the quotation-selection step.
func (m *WizardManager) Start(ctx context.Context) (*Wizard, error) {
	wiz := &Wizard{
		ID:        uuid.NewString(),
		Step:      StepSelectingQuotation,
		UpdatedAt: m.clock(),
	}
	m.mu.Lock()
	m.prune()
	m.instances[wiz.ID] = wiz
	m.mu.Unlock()
	return wiz, nil
}

// StartFromBooking opens a wizard seeded from an existing booking, for
// the edit flow. The source quotation is fixed, so the instance skips
// straight to the summary step. A missing booking surfaces as not-found
// so the caller can redirect away.
func (m *WizardManager) StartFromBooking(ctx context.Context, bookingID string) (*Wizard, error) {
	b, err := m.service.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	buy := b.BuyRate
	sell := b.SellRate
	wiz := &Wizard{
		ID:        uuid.NewString(),
		BookingID: b.ID,
		Step:      StepQuotationSummary,
		Draft: Draft{
			QuotationID:           b.QuotationID,
			CustomerName:          b.CustomerName,
			POL:                   b.POL,
			POD:                   b.POD,
			Equipment:             b.Equipment,
			Volume:                b.Volume,
			Type:                  b.Type,
			BuyRate:               &buy,
			SellRate:              &sell,
			ProfitAndLoss:         b.ProfitAndLoss,
			SelectedCarrierRateID: b.SelectedCarrierRateID,
			Notes:                 b.Notes,
		},
		UpdatedAt: m.clock(),
	}
	m.mu.Lock()
	m.prune()
	m.instances[wiz.ID] = wiz
	m.mu.Unlock()
	return wiz, nil
}

// Get returns a live wizard instance.
func (m *WizardManager) Get(id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked(id)
}

// UpdateDraft merges edits without changing the step. Manual buy-rate
// entry is ignored while a carrier rate is selected; the selection
// mirrors the candidate's offer.
func (m *WizardManager) UpdateDraft(id string, patch DraftPatch) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	d := &wiz.Draft
	if patch.BuyRate != nil && d.SelectedCarrierRateID == nil {
		d.BuyRate = patch.BuyRate
	}
	if patch.Notes != nil {
		d.Notes = *patch.Notes
	}
	d.ProfitAndLoss = pricing.ProfitAndLoss(d.SellRate, d.BuyRate)
	wiz.FieldErrors = nil
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// SearchQuotations refreshes the quotation candidates. The search spans
// all bookable quotations; cancelled and already-booked ones are
// filtered out because they cannot seed a booking.
func (m *WizardManager) SearchQuotations(ctx context.Context, id, term string) (*Wizard, error) {
	found, err := m.quotations.SearchByText(ctx, term)
	if err != nil {
		return nil, err
	}
	bookable := found[:0]
	for _, q := range found {
		switch q.Status {
		case quotations.StatusCancelled, quotations.StatusBookingCompleted:
			continue
		}
		bookable = append(bookable, q)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	wiz.QuotationCandidates = bookable
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// SelectQuotation records the source choice and mirrors its header into
// the draft. The quotation must come from the current candidate set.
func (m *WizardManager) SelectQuotation(id, quotationID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	for _, candidate := range wiz.QuotationCandidates {
		if candidate.ID == quotationID {
			d := &wiz.Draft
			d.QuotationID = candidate.ID
			d.CustomerName = candidate.CustomerName
			d.POL = candidate.POL
			d.POD = candidate.POD
			d.Equipment = candidate.Equipment
			d.Volume = candidate.Volume
			d.Type = candidate.Type
			d.SellRate = candidate.SellRate
			d.SelectedCarrierRateID = nil
			d.BuyRate = nil
			d.ProfitAndLoss = pricing.ProfitAndLoss(d.SellRate, d.BuyRate)
			wiz.RateCandidates = nil
			wiz.FieldErrors = nil
			wiz.UpdatedAt = m.clock()
			return wiz, nil
		}
	}
	return nil, fmt.Errorf("quotation %s is not among the current candidates: %w", quotationID, httpx.ErrNotFound)
}

// CanAdvance is the pure step-gating predicate.
func CanAdvance(step WizardStep, d Draft) bool {
	switch step {
	case StepSelectingQuotation:
		return d.QuotationID != ""
	case StepQuotationSummary, StepSelectingCarrierRate:
		// Carrier selection is optional; the buy rate is coerced at Submit.
		return true
	default:
		return false
	}
}

// Next advances one step. The quotation-selection step is the only gated
// move; carrier-rate search runs on demand, not on entry.
func (m *WizardManager) Next(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	switch wiz.Step {
	case StepSelectingQuotation:
		if !CanAdvance(wiz.Step, wiz.Draft) {
			wiz.FieldErrors = map[string]string{"quotation_id": "select a quotation first"}
			return nil, httpx.NewValidationError(wiz.FieldErrors)
		}
		wiz.Step = StepQuotationSummary
		wiz.FieldErrors = nil
	case StepQuotationSummary:
		wiz.Step = StepSelectingCarrierRate
	case StepSelectingCarrierRate:
		wiz.Step = StepReviewAndSubmit
	}
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// Back navigates one step backward. Backward navigation is never gated,
// but an edit-flow instance cannot reopen the quotation choice.
func (m *WizardManager) Back(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	switch wiz.Step {
	case StepReviewAndSubmit:
		wiz.Step = StepSelectingCarrierRate
	case StepSelectingCarrierRate:
		wiz.Step = StepQuotationSummary
	case StepQuotationSummary:
		if wiz.BookingID == "" {
			wiz.Step = StepSelectingQuotation
		}
	}
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// SearchRates runs the carrier-offer search with the draft's route.
func (m *WizardManager) SearchRates(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	origin, destination := wiz.Draft.POL, wiz.Draft.POD
	m.mu.Unlock()

	candidates, err := m.rates.SearchRates(ctx, schedules.RateSearchRequest{Origin: origin, Destination: destination})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err = m.locked(id)
	if err != nil {
		return nil, err
	}
	wiz.RateCandidates = candidates
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// SelectRate records a carrier choice. The candidate must come from the
// current result set; the inherited sell rate is untouched.
func (m *WizardManager) SelectRate(id, rateID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	for _, candidate := range wiz.RateCandidates {
		if candidate.ID == rateID {
			fields := wiz.Draft.rateFields()
			pricing.BookingSelection.ApplySelect(&fields, candidate.ID, candidate.BuyRate)
			wiz.Draft.setRateFields(fields)
			wiz.Draft.ProfitAndLoss = pricing.ProfitAndLoss(wiz.Draft.SellRate, wiz.Draft.BuyRate)
			wiz.FieldErrors = nil
			wiz.UpdatedAt = m.clock()
			return wiz, nil
		}
	}
	return nil, fmt.Errorf("rate %s is not among the current candidates: %w", rateID, httpx.ErrNotFound)
}

// DeselectRate clears the carrier choice; the buy rate falls back to
// zero rather than becoming undefined.
func (m *WizardManager) DeselectRate(id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	fields := wiz.Draft.rateFields()
	pricing.BookingSelection.ApplyDeselect(&fields)
	wiz.Draft.setRateFields(fields)
	wiz.Draft.ProfitAndLoss = pricing.ProfitAndLoss(wiz.Draft.SellRate, wiz.Draft.BuyRate)
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// Submit finalizes the workflow: a missing buy rate is coerced to zero,
// the booking is persisted and the instance discarded. A missing
// quotation selection snaps the wizard back to the first step.
func (m *WizardManager) Submit(ctx context.Context, id string) (Booking, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return Booking{}, err
	}
	d := wiz.Draft
	if d.QuotationID == "" {
		wiz.FieldErrors = map[string]string{"quotation_id": "select a quotation first"}
		wiz.Step = StepSelectingQuotation
		wiz.UpdatedAt = m.clock()
		m.mu.Unlock()
		return Booking{}, httpx.NewValidationError(wiz.FieldErrors)
	}
	m.mu.Unlock()

	buy := pricing.Money(0)
	if d.BuyRate != nil {
		buy = *d.BuyRate
	}

	var saved Booking
	if wiz.BookingID == "" {
		saved, err = m.service.Create(ctx, CreateBookingRequest{
			QuotationID:           d.QuotationID,
			BuyRate:               &buy,
			SelectedCarrierRateID: d.SelectedCarrierRateID,
			Notes:                 d.Notes,
		})
	} else {
		saved, err = m.service.Update(ctx, wiz.BookingID, UpdateBookingRequest{
			BuyRate:                  &buy,
			SelectedCarrierRateID:    d.SelectedCarrierRateID,
			Notes:                    &d.Notes,
			ClearSelectedCarrierRate: d.SelectedCarrierRateID == nil,
		})
	}
	if err != nil {
		var ve *httpx.ValidationError
		if errors.As(err, &ve) {
			m.mu.Lock()
			if wiz, lookupErr := m.locked(id); lookupErr == nil {
				wiz.FieldErrors = ve.Fields
				wiz.UpdatedAt = m.clock()
			}
			m.mu.Unlock()
		}
		return Booking{}, err
	}
	m.Discard(id)
	return saved, nil
}

// Discard drops an instance. Nothing was persisted, so this is always safe.
func (m *WizardManager) Discard(id string) {
	m.mu.Lock()
	delete(m.instances, id)
	m.mu.Unlock()
}

func (m *WizardManager) locked(id string) (*Wizard, error) {
	wiz, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("wizard %s: %w", id, httpx.ErrNotFound)
	}
	return wiz, nil
}

func (m *WizardManager) prune() {
	cutoff := m.clock().Add(-m.ttl)
	for id, wiz := range m.instances {
		if wiz.UpdatedAt.Before(cutoff) {
			delete(m.instances, id)
		}
	}
}

func (d Draft) rateFields() pricing.RateFields {
	return pricing.RateFields{
		SelectedRateID: d.SelectedCarrierRateID,
		BuyRate:        d.BuyRate,
		SellRate:       d.SellRate,
	}
}

func (d *Draft) setRateFields(f pricing.RateFields) {
	d.SelectedCarrierRateID = f.SelectedRateID
	d.BuyRate = f.BuyRate
	d.SellRate = f.SellRate
}
