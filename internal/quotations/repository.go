package quotations

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/shared"
	"github.com/harborline/harborline/internal/store"
)

// Repository defines persistence operations for quotations.
type Repository interface {
	List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error)
	Get(ctx context.Context, id string) (Quotation, error)
	SearchByText(ctx context.Context, term string) ([]Quotation, error)
	Create(ctx context.Context, q Quotation) (Quotation, error)
	Update(ctx context.Context, id string, req UpdateQuotationRequest) (Quotation, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemoryRepository keeps quotations in a process-local map. The quotation
// number sequence is seeded at 1000 so the first record is QTN-001001.
type MemoryRepository struct {
	latency store.Latency
	clock   store.Clock
	seq     *store.Sequence

	mu    sync.RWMutex
	items map[string]Quotation
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository(latency store.Latency, clock store.Clock) *MemoryRepository {
	return &MemoryRepository{
		latency: latency,
		clock:   clock,
		seq:     store.NewSequence("QTN", 1000),
		items:   make(map[string]Quotation),
	}
}

// List returns a page of quotations matching the filter.
func (r *MemoryRepository) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	var matched []Quotation
	term := strings.ToLower(strings.TrimSpace(req.Term))
	for _, item := range r.items {
		if req.Status != nil && item.Status != *req.Status {
			continue
		}
		if term != "" && !quotationMatches(item, term) {
			continue
		}
		matched = append(matched, item)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	page := shared.NewPagination(req.Page, req.PerPage, len(matched))
	start, end := page.Window(len(matched))
	return matched[start:end], len(matched), nil
}

// Get returns a quotation by id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Quotation, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Quotation{}, err
	}
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Quotation{}, fmt.Errorf("quotation %s: %w", id, httpx.ErrNotFound)
	}
	return item, nil
}

// SearchByText matches quotations whose id or customer name contains the
// term, case-insensitively. Either field matching is enough.
func (r *MemoryRepository) SearchByText(ctx context.Context, term string) ([]Quotation, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Quotation
	for _, item := range r.items {
		if term == "" || quotationMatches(item, term) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create assigns an id and timestamps, derives profit and loss, and
// stores the record.
func (r *MemoryRepository) Create(ctx context.Context, q Quotation) (Quotation, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Quotation{}, err
	}
	now := r.clock()
	q.ID = r.seq.Next()
	q.CreatedAt = now
	q.UpdatedAt = now
	q.ProfitAndLoss = pricing.ProfitAndLoss(q.SellRate, q.BuyRate)
	r.mu.Lock()
	r.items[q.ID] = q
	r.mu.Unlock()
	return q, nil
}

// Update applies non-nil fields, re-derives profit and loss, and always
// touches UpdatedAt, even for an empty partial.
func (r *MemoryRepository) Update(ctx context.Context, id string, req UpdateQuotationRequest) (Quotation, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Quotation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return Quotation{}, fmt.Errorf("quotation %s: %w", id, httpx.ErrNotFound)
	}
	if req.CustomerName != nil {
		item.CustomerName = *req.CustomerName
	}
	if req.POL != nil {
		item.POL = *req.POL
	}
	if req.POD != nil {
		item.POD = *req.POD
	}
	if req.Equipment != nil {
		item.Equipment = *req.Equipment
	}
	if req.Volume != nil {
		item.Volume = *req.Volume
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.BuyRate != nil {
		item.BuyRate = req.BuyRate
	}
	if req.SellRate != nil {
		item.SellRate = req.SellRate
	}
	if req.SelectedRateID != nil {
		item.SelectedRateID = req.SelectedRateID
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.ClearBuyRate {
		item.BuyRate = nil
	}
	if req.ClearSellRate {
		item.SellRate = nil
	}
	if req.ClearSelectedRate {
		item.SelectedRateID = nil
	}
	item.ProfitAndLoss = pricing.ProfitAndLoss(item.SellRate, item.BuyRate)
	item.UpdatedAt = r.clock()
	r.items[id] = item
	return item, nil
}

// Delete removes the record, reporting whether it existed. Lifecycle
// guards live in the service layer; the store removes blindly.
func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func quotationMatches(item Quotation, term string) bool {
	return strings.Contains(strings.ToLower(item.ID), term) ||
		strings.Contains(strings.ToLower(item.CustomerName), term)
}
