package schedules

import (
	"context"
	"strings"
	"time"

	"github.com/harborline/harborline/internal/platform/httpx"
)

// Service wraps schedule business rules around the repositories.
type Service struct {
	repo  Repository
	rates RateRepository
}

// NewService constructs a Service.
func NewService(repo Repository, rates RateRepository) *Service {
	return &Service{repo: repo, rates: rates}
}

// List returns a page of sailings.
func (s *Service) List(ctx context.Context, req ListSchedulesRequest) ([]Schedule, int, error) {
	return s.repo.List(ctx, req)
}

// Get returns a sailing by id.
func (s *Service) Get(ctx context.Context, id string) (Schedule, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new sailing.
func (s *Service) Create(ctx context.Context, req CreateScheduleRequest) (Schedule, error) {
	if err := validateLeg(req.ETD, req.ETA); err != nil {
		return Schedule{}, err
	}
	schedule := Schedule{
		Carrier:     strings.TrimSpace(req.Carrier),
		Vessel:      strings.TrimSpace(req.Vessel),
		Voyage:      strings.TrimSpace(req.Voyage),
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		ETD:         req.ETD,
		ETA:         req.ETA,
		Active:      true,
	}
	return s.repo.Create(ctx, schedule)
}

// Update applies a partial update after leg validation.
func (s *Service) Update(ctx context.Context, id string, req UpdateScheduleRequest) (Schedule, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	etd, eta := existing.ETD, existing.ETA
	if req.ETD != nil {
		etd = *req.ETD
	}
	if req.ETA != nil {
		eta = *req.ETA
	}
	if err := validateLeg(etd, eta); err != nil {
		return Schedule{}, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a sailing.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// ExpireBefore deactivates sailings that arrived before the cutoff and
// reports how many were closed.
func (s *Service) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.repo.ExpireBefore(ctx, cutoff)
}

// SearchRates returns candidate carrier offers for a route.
func (s *Service) SearchRates(ctx context.Context, req RateSearchRequest) ([]ScheduleRate, error) {
	return s.rates.SearchRates(ctx, req)
}

func validateLeg(etd, eta time.Time) error {
	if eta.Before(etd) {
		return httpx.NewValidationError(map[string]string{
			"eta": "arrival must not precede departure",
		})
	}
	return nil
}
