package schedules

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

// Repository defines persistence operations for sailings.
type Repository interface {
	List(ctx context.Context, req ListSchedulesRequest) ([]Schedule, int, error)
	Get(ctx context.Context, id string) (Schedule, error)
	Create(ctx context.Context, schedule Schedule) (Schedule, error)
	Update(ctx context.Context, id string, req UpdateScheduleRequest) (Schedule, error)
	Delete(ctx context.Context, id string) (bool, error)
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RateRepository exposes the read-only carrier offers.
type RateRepository interface {
	SearchRates(ctx context.Context, req RateSearchRequest) ([]ScheduleRate, error)
	GetRate(ctx context.Context, id string) (ScheduleRate, error)
}

// MemoryRepository keeps sailings in a process-local map.
type MemoryRepository struct {
	latency store.Latency
	clock   store.Clock
	seq     *store.Sequence

	mu    sync.RWMutex
	items map[string]Schedule
}

// NewMemoryRepository constructs an empty schedule repository.
func NewMemoryRepository(latency store.Latency, clock store.Clock) *MemoryRepository {
	return &MemoryRepository{
		latency: latency,
		clock:   clock,
		seq:     store.NewSequence("SCH", 0),
		items:   make(map[string]Schedule),
	}
}

// List returns a page of sailings matching the filter term.
func (r *MemoryRepository) List(ctx context.Context, req ListSchedulesRequest) ([]Schedule, int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	var matched []Schedule
	term := strings.ToLower(strings.TrimSpace(req.Term))
	for _, item := range r.items {
		if !req.IncludeClosed && !item.Active {
			continue
		}
		if term != "" && !scheduleMatches(item, term) {
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

// Get returns a sailing by id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (Schedule, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Schedule{}, err
	}
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return Schedule{}, fmt.Errorf("schedule %s: %w", id, httpx.ErrNotFound)
	}
	return item, nil
}

// Create assigns an id and timestamps and stores the record.
func (r *MemoryRepository) Create(ctx context.Context, schedule Schedule) (Schedule, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Schedule{}, err
	}
	now := r.clock()
	schedule.ID = r.seq.Next()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	r.mu.Lock()
	r.items[schedule.ID] = schedule
	r.mu.Unlock()
	return schedule, nil
}

// Update applies non-nil fields and always touches UpdatedAt.
func (r *MemoryRepository) Update(ctx context.Context, id string, req UpdateScheduleRequest) (Schedule, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return Schedule{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return Schedule{}, fmt.Errorf("schedule %s: %w", id, httpx.ErrNotFound)
	}
	if req.Carrier != nil {
		item.Carrier = *req.Carrier
	}
	if req.Vessel != nil {
		item.Vessel = *req.Vessel
	}
	if req.Voyage != nil {
		item.Voyage = *req.Voyage
	}
	if req.Origin != nil {
		item.Origin = *req.Origin
	}
	if req.Destination != nil {
		item.Destination = *req.Destination
	}
	if req.ETD != nil {
		item.ETD = *req.ETD
	}
	if req.ETA != nil {
		item.ETA = *req.ETA
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

// ExpireBefore deactivates sailings that arrived before the cutoff.
func (r *MemoryRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	expired := 0
	for id, item := range r.items {
		if item.Active && item.ETA.Before(cutoff) {
			item.Active = false
			item.UpdatedAt = r.clock()
			r.items[id] = item
			expired++
		}
	}
	return expired, nil
}

func scheduleMatches(item Schedule, term string) bool {
	for _, field := range []string{item.ID, item.Carrier, item.Vessel, item.Voyage, item.Origin, item.Destination} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// MemoryRateRepository serves the seeded carrier offers.
type MemoryRateRepository struct {
	latency store.Latency
	limit   int

	mu    sync.RWMutex
	rates []ScheduleRate
	byID  map[string]ScheduleRate
}

// NewMemoryRateRepository constructs a repository over seeded offers.
// limit caps search results; zero falls back to 10.
func NewMemoryRateRepository(seed []ScheduleRate, latency store.Latency, limit int) *MemoryRateRepository {
	if limit <= 0 {
		limit = 10
	}
	byID := make(map[string]ScheduleRate, len(seed))
	for _, rate := range seed {
		byID[rate.ID] = rate
	}
	return &MemoryRateRepository{latency: latency, limit: limit, rates: seed, byID: byID}
}

// SearchRates matches offers by case-insensitive substring containment of
// origin and destination. Zero matches is a valid, non-exceptional result.
func (r *MemoryRateRepository) SearchRates(ctx context.Context, req RateSearchRequest) ([]ScheduleRate, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}
	origin := strings.ToLower(strings.TrimSpace(req.Origin))
	destination := strings.ToLower(strings.TrimSpace(req.Destination))

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ScheduleRate
	for _, rate := range r.rates {
		if origin != "" && !strings.Contains(strings.ToLower(rate.Origin), origin) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(rate.Destination), destination) {
			continue
		}
		out = append(out, rate)
		if len(out) == r.limit {
			break
		}
	}
	return out, nil
}

// GetRate returns a carrier offer by id.
func (r *MemoryRateRepository) GetRate(ctx context.Context, id string) (ScheduleRate, error) {
	if err := r.latency.Wait(ctx); err != nil {
		return ScheduleRate{}, err
	}
	r.mu.RLock()
	rate, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return ScheduleRate{}, fmt.Errorf("schedule rate %s: %w", id, httpx.ErrNotFound)
	}
	return rate, nil
}
