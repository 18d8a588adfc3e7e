package rates

import (
	"context"
	"strings"
	"time"

	"github.com/harborline/harborline/internal/platform/httpx"
)

// Service wraps buy-rate business rules around the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of buy rates.
func (s *Service) List(ctx context.Context, req ListBuyRatesRequest) ([]BuyRate, int, error) {
	return s.repo.List(ctx, req)
}

// Get returns a buy rate by id.
func (s *Service) Get(ctx context.Context, id string) (BuyRate, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new buy rate.
func (s *Service) Create(ctx context.Context, req CreateBuyRateRequest) (BuyRate, error) {
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return BuyRate{}, err
	}
	if req.Rate.IsNegative() {
		return BuyRate{}, httpx.NewValidationError(map[string]string{"rate": "rate must not be negative"})
	}
	rate := BuyRate{
		Carrier:     strings.TrimSpace(req.Carrier),
		Origin:      strings.TrimSpace(req.Origin),
		Destination: strings.TrimSpace(req.Destination),
		Equipment:   strings.TrimSpace(req.Equipment),
		Rate:        req.Rate,
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
		Active:      true,
	}
	return s.repo.Create(ctx, rate)
}

// Update applies a partial update after window validation.
func (s *Service) Update(ctx context.Context, id string, req UpdateBuyRateRequest) (BuyRate, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return BuyRate{}, err
	}
	from, to := existing.ValidFrom, existing.ValidTo
	if req.ValidFrom != nil {
		from = *req.ValidFrom
	}
	if req.ValidTo != nil {
		to = *req.ValidTo
	}
	if err := validateWindow(from, to); err != nil {
		return BuyRate{}, err
	}
	if req.Rate != nil && req.Rate.IsNegative() {
		return BuyRate{}, httpx.NewValidationError(map[string]string{"rate": "rate must not be negative"})
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a buy rate.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// ExpireBefore deactivates rates whose validity ended before the cutoff
// and reports how many were closed.
func (s *Service) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return s.repo.ExpireBefore(ctx, cutoff)
}

func validateWindow(from, to time.Time) error {
	if to.Before(from) {
		return httpx.NewValidationError(map[string]string{
			"valid_to": "validity end must not precede its start",
		})
	}
	return nil
}
