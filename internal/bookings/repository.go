package bookings

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/shared"
	"github.com/harborline/harborline/internal/store"
)

// Repository defines persistence operations for bookings.
type Repository interface {
	List(ctx context.Context, req ListBookingsRequest) ([]Booking, int, error)
	Get(ctx context.Context, id string) (Booking, error)
	SearchByText(ctx context.Context, term string) ([]Booking, error)
	Create(ctx context.Context, b Booking) (Booking, error)
	Update(ctx context.Context, id string, req UpdateBookingRequest) (Booking, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemoryRepository keeps bookings in a process-local map. The booking
// number sequence starts at zero so the first record is BKNG-000001.
type MemoryRepository struct {
	latency store.Latency
	clock   store.Clock
	seq     *store.Sequence

	mu    sync.RWMutex
	items map[string]Booking
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository(latency store.Latency, clock store.Clock) *MemoryRepository {
	return &MemoryRepository{
		latency: latency,
		clock:   clock,
		seq:     store.NewSequence("BKNG", 0),
		items:   make(map[string]Booking),
	}
}

// List returns a page of bookings matching the filter.
func (r *MemoryRepository) List(ctx context.Context, req ListBookingsRequest) ([]Booking, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	var matched []Booking
	term := strings.ToLower(strings.TrimSpace(req.Term))
	for _, item := range r.items {
		if req.Status != nil && item.Status != *req.Status {
			continue
		}
		if term != "" && !bookingMatches(item, term) {
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

// Get returns a booking by id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Booking, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Booking{}, err
	}
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Booking{}, fmt.Errorf("booking %s: %w", id, httpx.ErrNotFound)
	}
	return item, nil
}

// SearchByText matches bookings whose id, source quotation id or customer
// name contains the term, case-insensitively.
func (r *MemoryRepository) SearchByText(ctx context.Context, term string) ([]Booking, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, item := range r.items {
		if term == "" || bookingMatches(item, term) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create assigns an id and timestamps, derives profit and loss, and
// stores the record.
func (r *MemoryRepository) Create(ctx context.Context, b Booking) (Booking, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Booking{}, err
	}
	now := r.clock()
	b.ID = r.seq.Next()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.ProfitAndLoss = b.SellRate.Sub(b.BuyRate)
	r.mu.Lock()
	r.items[b.ID] = b
	r.mu.Unlock()
	return b, nil
}

// Update applies non-nil fields, re-derives profit and loss, and always
// touches UpdatedAt, even for an empty partial.
func (r *MemoryRepository) Update(ctx context.Context, id string, req UpdateBookingRequest) (Booking, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return Booking{}, fmt.Errorf("booking %s: %w", id, httpx.ErrNotFound)
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
	if req.BuyRate != nil {
		item.BuyRate = *req.BuyRate
	}
	if req.SellRate != nil {
		item.SellRate = *req.SellRate
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.SelectedCarrierRateID != nil {
		item.SelectedCarrierRateID = req.SelectedCarrierRateID
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.ClearSelectedCarrierRate {
		item.SelectedCarrierRateID = nil
	}
	item.ProfitAndLoss = item.SellRate.Sub(item.BuyRate)
	item.UpdatedAt = r.clock()
	r.items[id] = item
	return item, nil
}

// Delete removes the record, reporting whether it existed. The quotation
// compensation lives in the service layer; the store removes blindly.
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

func bookingMatches(item Booking, term string) bool {
	return strings.Contains(strings.ToLower(item.ID), term) ||
		strings.Contains(strings.ToLower(item.QuotationID), term) ||
		strings.Contains(strings.ToLower(item.CustomerName), term)
}
