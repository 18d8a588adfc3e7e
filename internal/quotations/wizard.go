package quotations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/schedules"
	"github.com/harborline/harborline/internal/store"
)

// WizardStep names a state of the quotation pricing workflow.
type WizardStep string

const (
	StepCollectingRoute WizardStep = "COLLECTING_ROUTE"
	StepSelectingRate   WizardStep = "SELECTING_RATE"
	StepReviewAndSubmit WizardStep = "REVIEW_AND_SUBMIT"
)

// RateSearcher is the slice of the schedules service the wizard needs.
type RateSearcher interface {
	SearchRates(ctx context.Context, req schedules.RateSearchRequest) ([]schedules.ScheduleRate, error)
}

// Draft is the unpersisted working copy a wizard instance accumulates.
// The record store is only touched at Submit.
type Draft struct {
	CustomerName   string          `json:"customer_name"`
	POL            string          `json:"pol"`
	POD            string          `json:"pod"`
	Equipment      string          `json:"equipment"`
	Volume         string          `json:"volume"`
	Type           ShipmentType    `json:"type"`
	Status         QuotationStatus `json:"status"`
	Notes          string          `json:"notes"`
	SelectedRateID *string         `json:"selected_rate_id,omitempty"`
	BuyRate        *pricing.Money  `json:"buy_rate,omitempty"`
	SellRate       *pricing.Money  `json:"sell_rate,omitempty"`
}

// DraftPatch merges user edits into a draft. Clear flags express removal.
type DraftPatch struct {
	CustomerName *string          `json:"customer_name,omitempty"`
	POL          *string          `json:"pol,omitempty"`
	POD          *string          `json:"pod,omitempty"`
	Equipment    *string          `json:"equipment,omitempty"`
	Volume       *string          `json:"volume,omitempty"`
	Type         *ShipmentType    `json:"type,omitempty"`
	Status       *QuotationStatus `json:"status,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	BuyRate      *pricing.Money   `json:"buy_rate,omitempty"`
	SellRate     *pricing.Money   `json:"sell_rate,omitempty"`

	ClearBuyRate  bool `json:"clear_buy_rate,omitempty"`
	ClearSellRate bool `json:"clear_sell_rate,omitempty"`
}

// Wizard is one resumable instance of the quotation pricing workflow.
type Wizard struct {
	ID          string                   `json:"id"`
	QuotationID string                   `json:"quotation_id,omitempty"`
	Step        WizardStep               `json:"step"`
	Draft       Draft                    `json:"draft"`
	Candidates  []schedules.ScheduleRate `json:"candidates"`
	FieldErrors map[string]string        `json:"field_errors,omitempty"`
	UpdatedAt   time.Time                `json:"-"`
}

// WizardManager owns the live wizard instances. Instances never outlive
// the process; abandonment is safe because nothing is persisted before
// Submit.
type WizardManager struct {
	service *Service
	rates   RateSearcher
	clock   store.Clock
	ttl     time.Duration

	mu        sync.Mutex
	instances map[string]*Wizard
}

// NewWizardManager constructs a manager. ttl bounds how long an
// untouched instance survives; zero means one hour.
func NewWizardManager(service *Service, rates RateSearcher, clock store.Clock, ttl time.Duration) *WizardManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &WizardManager{
		service:   service,
		rates:     rates,
		clock:     clock,
		ttl:       ttl,
		instances: make(map[string]*Wizard),
	}
}

// Start opens a fresh wizard at the route-collection step.
func (m *WizardManager) Start(ctx context.Context) (*Wizard, error) {
	wiz := &Wizard{
		ID:   uuid.NewString(),
		Step: StepCollectingRoute,
		Draft: Draft{
			Status: StatusDraft,
		},
		UpdatedAt: m.clock(),
	}
	m.mu.Lock()
	m.prune()
	m.instances[wiz.ID] = wiz
	m.mu.Unlock()
	return wiz, nil
}

// StartFromQuotation opens a wizard seeded from an existing quotation,
// for the edit flow. A missing quotation surfaces as not-found so the
// caller can redirect away.
func (m *WizardManager) StartFromQuotation(ctx context.Context, quotationID string) (*Wizard, error) {
	q, err := m.service.Get(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	wiz := &Wizard{
		ID:          uuid.NewString(),
		QuotationID: q.ID,
		Step:        StepCollectingRoute,
		Draft: Draft{
			CustomerName:   q.CustomerName,
			POL:            q.POL,
			POD:            q.POD,
			Equipment:      q.Equipment,
			Volume:         q.Volume,
			Type:           q.Type,
			Status:         q.Status,
			Notes:          q.Notes,
			SelectedRateID: q.SelectedRateID,
			BuyRate:        q.BuyRate,
			SellRate:       q.SellRate,
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
// entry is ignored while a candidate rate is selected; the selection
// mirrors the candidate's offer.
func (m *WizardManager) UpdateDraft(id string, patch DraftPatch) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	d := &wiz.Draft
	if patch.CustomerName != nil {
		d.CustomerName = *patch.CustomerName
	}
	if patch.POL != nil {
		d.POL = *patch.POL
	}
	if patch.POD != nil {
		d.POD = *patch.POD
	}
	if patch.Equipment != nil {
		d.Equipment = *patch.Equipment
	}
	if patch.Volume != nil {
		d.Volume = *patch.Volume
	}
	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.Notes != nil {
		d.Notes = *patch.Notes
	}
	if d.SelectedRateID == nil {
		if patch.BuyRate != nil {
			d.BuyRate = patch.BuyRate
		}
		if patch.ClearBuyRate {
			d.BuyRate = nil
		}
	}
	if patch.SellRate != nil {
		d.SellRate = patch.SellRate
	}
	if patch.ClearSellRate {
		d.SellRate = nil
	}
	wiz.FieldErrors = nil
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// CanAdvance is the pure step-gating predicate.
func CanAdvance(step WizardStep, d Draft) bool {
	switch step {
	case StepCollectingRoute:
		return validateHeader(d.CustomerName, d.POL, d.POD, d.Equipment, d.Type, d.Status) == nil
	case StepSelectingRate:
		// Rates may legitimately remain unset while the draft stays DRAFT.
		return true
	default:
		return false
	}
}

// Next advances one step. Entering the rate-selection step fires the
// rate search automatically with the just-entered route.
func (m *WizardManager) Next(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	switch wiz.Step {
	case StepCollectingRoute:
		if err := validateHeader(wiz.Draft.CustomerName, wiz.Draft.POL, wiz.Draft.POD, wiz.Draft.Equipment, wiz.Draft.Type, wiz.Draft.Status); err != nil {
			var ve *httpx.ValidationError
			if errors.As(err, &ve) {
				wiz.FieldErrors = ve.Fields
			}
			m.mu.Unlock()
			return nil, err
		}
		wiz.Step = StepSelectingRate
		wiz.FieldErrors = nil
		wiz.UpdatedAt = m.clock()
		m.mu.Unlock()
		return m.refreshCandidates(ctx, id)
	case StepSelectingRate:
		wiz.Step = StepReviewAndSubmit
		wiz.UpdatedAt = m.clock()
		m.mu.Unlock()
		return wiz, nil
	default:
		m.mu.Unlock()
		return wiz, nil
	}
}

// Back navigates one step backward. Backward navigation is never gated.
func (m *WizardManager) Back(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	switch wiz.Step {
	case StepReviewAndSubmit:
		wiz.Step = StepSelectingRate
		wiz.UpdatedAt = m.clock()
		m.mu.Unlock()
		return m.refreshCandidates(ctx, id)
	case StepSelectingRate:
		wiz.Step = StepCollectingRoute
	}
	wiz.UpdatedAt = m.clock()
	m.mu.Unlock()
	return wiz, nil
}

// SearchRates re-runs the candidate search on user request.
func (m *WizardManager) SearchRates(ctx context.Context, id string) (*Wizard, error) {
	return m.refreshCandidates(ctx, id)
}

// SelectRate records a candidate choice. The candidate must come from
// the current result set, which guarantees its route matched the search.
func (m *WizardManager) SelectRate(id, rateID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	for _, candidate := range wiz.Candidates {
		if candidate.ID == rateID {
			fields := wiz.Draft.rateFields()
			pricing.QuotationSelection.ApplySelect(&fields, candidate.ID, candidate.BuyRate)
			wiz.Draft.setRateFields(fields)
			wiz.FieldErrors = nil
			wiz.UpdatedAt = m.clock()
			return wiz, nil
		}
	}
	return nil, fmt.Errorf("rate %s is not among the current candidates: %w", rateID, httpx.ErrNotFound)
}

// DeselectRate clears the candidate choice; both the selection and the
// mirrored buy rate become undefined.
func (m *WizardManager) DeselectRate(id string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wiz, err := m.locked(id)
	if err != nil {
		return nil, err
	}
	fields := wiz.Draft.rateFields()
	pricing.QuotationSelection.ApplyDeselect(&fields)
	wiz.Draft.setRateFields(fields)
	wiz.UpdatedAt = m.clock()
	return wiz, nil
}

// Submit finalizes the workflow: validates completeness, persists the
// quotation and discards the instance. A failed rate check snaps the
// wizard back to the rate-selection step with field errors attached.
func (m *WizardManager) Submit(ctx context.Context, id string) (Quotation, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return Quotation{}, err
	}
	d := wiz.Draft
	if err := validateRateCompleteness(d.Status, d.BuyRate, d.SellRate); err != nil {
		var ve *httpx.ValidationError
		if errors.As(err, &ve) {
			wiz.FieldErrors = ve.Fields
		}
		wiz.Step = StepSelectingRate
		wiz.UpdatedAt = m.clock()
		m.mu.Unlock()
		return Quotation{}, err
	}
	m.mu.Unlock()

	var saved Quotation
	if wiz.QuotationID == "" {
		saved, err = m.service.Create(ctx, CreateQuotationRequest{
			CustomerName:   d.CustomerName,
			POL:            d.POL,
			POD:            d.POD,
			Equipment:      d.Equipment,
			Volume:         d.Volume,
			Type:           d.Type,
			Status:         d.Status,
			BuyRate:        d.BuyRate,
			SellRate:       d.SellRate,
			SelectedRateID: d.SelectedRateID,
			Notes:          d.Notes,
		})
	} else {
		saved, err = m.service.Update(ctx, wiz.QuotationID, UpdateQuotationRequest{
			CustomerName:      &d.CustomerName,
			POL:               &d.POL,
			POD:               &d.POD,
			Equipment:         &d.Equipment,
			Volume:            &d.Volume,
			Type:              &d.Type,
			Status:            &d.Status,
			BuyRate:           d.BuyRate,
			SellRate:          d.SellRate,
			SelectedRateID:    d.SelectedRateID,
			Notes:             &d.Notes,
			ClearBuyRate:      d.BuyRate == nil,
			ClearSellRate:     d.SellRate == nil,
			ClearSelectedRate: d.SelectedRateID == nil,
		})
	}
	if err != nil {
		return Quotation{}, err
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

func (m *WizardManager) refreshCandidates(ctx context.Context, id string) (*Wizard, error) {
	m.mu.Lock()
	wiz, err := m.locked(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	origin, destination := wiz.Draft.POL, wiz.Draft.POD
	m.mu.Unlock()

	if origin == "" || destination == "" {
		return wiz, nil
	}
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
	wiz.Candidates = candidates
	wiz.UpdatedAt = m.clock()
	return wiz, nil
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
		SelectedRateID: d.SelectedRateID,
		BuyRate:        d.BuyRate,
		SellRate:       d.SellRate,
	}
}

func (d *Draft) setRateFields(f pricing.RateFields) {
	d.SelectedRateID = f.SelectedRateID
	d.BuyRate = f.BuyRate
	d.SellRate = f.SellRate
}
