package rates

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/shared"
	"github.com/harborline/harborline/internal/store"
)

// Repository defines persistence operations for buy rates.
type Repository interface {
	List(ctx context.Context, req ListBuyRatesRequest) ([]BuyRate, int, error)
	Get(ctx context.Context, id string) (BuyRate, error)
	Create(ctx context.Context, rate BuyRate) (BuyRate, error)
	Update(ctx context.Context, id string, req UpdateBuyRateRequest) (BuyRate, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// MemoryRepository keeps buy rates in a process-local map.
type MemoryRepository struct {
	latency store.Latency
	clock   store.Clock
	seq     *store.Sequence

	mu    sync.RWMutex
	items map[string]BuyRate
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository(latency store.Latency, clock store.Clock) *MemoryRepository {
	return &MemoryRepository{
		latency: latency,
		clock:   clock,
		seq:     store.NewSequence("BR", 0),
		items:   make(map[string]BuyRate),
	}
}

// List returns a page of buy rates matching the filter term.
func (r *MemoryRepository) List(ctx context.Context, req ListBuyRatesRequest) ([]BuyRate, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	var matched []BuyRate
	term := strings.ToLower(strings.TrimSpace(req.Term))
	for _, item := range r.items {
		if !req.IncludeClosed && !item.Active {
			continue
		}
		if term != "" && !matchesTerm(item, term) {
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

// Get returns a buy rate by id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (BuyRate, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return BuyRate{}, err
	}
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return BuyRate{}, fmt.Errorf("buy rate %s: %w", id, httpx.ErrNotFound)
	}
	return item, nil
}

// Create assigns an id and timestamps and stores the record.
func (r *MemoryRepository) Create(ctx context.Context, rate BuyRate) (BuyRate, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return BuyRate{}, err
	}
	now := r.clock()
	rate.ID = r.seq.Next()
	rate.CreatedAt = now
	rate.UpdatedAt = now
	r.mu.Lock()
	r.items[rate.ID] = rate
	r.mu.Unlock()
	return rate, nil
}

// Update applies non-nil fields. UpdatedAt is always touched, even for an
// empty partial.
func (r *MemoryRepository) Update(ctx context.Context, id string, req UpdateBuyRateRequest) (BuyRate, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return BuyRate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return BuyRate{}, fmt.Errorf("buy rate %s: %w", id, httpx.ErrNotFound)
	}
	if req.Carrier != nil {
		item.Carrier = *req.Carrier
	}
	if req.Origin != nil {
		item.Origin = *req.Origin
	}
	if req.Destination != nil {
		item.Destination = *req.Destination
	}
	if req.Equipment != nil {
		item.Equipment = *req.Equipment
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.ValidFrom != nil {
		item.ValidFrom = *req.ValidFrom
	}
	if req.ValidTo != nil {
		item.ValidTo = *req.ValidTo
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	item.UpdatedAt = r.clock()
	r.items[id] = item
	return item, nil
}

// Delete removes the record, reporting whether it existed.
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

// ExpireBefore deactivates rates whose validity ended before the cutoff.
func (r *MemoryRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	expired := 0
	for id, item := range r.items {
		if item.Active && item.ValidTo.Before(cutoff) {
			item.Active = false
			item.UpdatedAt = r.clock()
			r.items[id] = item
			expired++
		}
	}
	return expired, nil
}

func matchesTerm(item BuyRate, term string) bool {
	for _, field := range []string{item.ID, item.Carrier, item.Origin, item.Destination, item.Equipment} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
