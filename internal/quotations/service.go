package quotations

import (
	"context"
	"fmt"
	"strings"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
)

var (
	// ErrInvalidStatus reports an illegal lifecycle move.
	ErrInvalidStatus = fmt.Errorf("illegal status transition: %w", httpx.ErrConflict)
	// ErrDeleteBooked guards quotations that already produced a booking.
	ErrDeleteBooked = fmt.Errorf("quotation with a completed booking cannot be deleted: %w", httpx.ErrConflict)
)

// Service wraps quotation business rules around the repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of quotations.
func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	return s.repo.List(ctx, req)
}

// Get returns a quotation by id.
func (s *Service) Get(ctx context.Context, id string) (Quotation, error) {
	return s.repo.Get(ctx, id)
}

// SearchByText matches quotations by id or customer-name substring.
func (s *Service) SearchByText(ctx context.Context, term string) ([]Quotation, error) {
	return s.repo.SearchByText(ctx, term)
}

// Create validates and stores a new quotation. Profit and loss is derived
// by the store on write.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (Quotation, error) {
	if err := validateHeader(req.CustomerName, req.POL, req.POD, req.Equipment, req.Type, req.Status); err != nil {
		return Quotation{}, err
	}
	if err := validateRateCompleteness(req.Status, req.BuyRate, req.SellRate); err != nil {
		return Quotation{}, err
	}
	if err := validateRateSigns(req.BuyRate, req.SellRate); err != nil {
		return Quotation{}, err
	}
	q := Quotation{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		POL:            strings.TrimSpace(req.POL),
		POD:            strings.TrimSpace(req.POD),
		Equipment:      strings.TrimSpace(req.Equipment),
		Volume:         strings.TrimSpace(req.Volume),
		Type:           req.Type,
		Status:         req.Status,
		BuyRate:        req.BuyRate,
		SellRate:       req.SellRate,
		SelectedRateID: req.SelectedRateID,
		Notes:          req.Notes,
	}
	return s.repo.Create(ctx, q)
}

// Update applies a partial update after lifecycle and completeness checks.
// Validation failures leave the stored record untouched.
func (s *Service) Update(ctx context.Context, id string, req UpdateQuotationRequest) (Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Quotation{}, err
	}

	nextStatus := existing.Status
	if req.Status != nil {
		nextStatus = *req.Status
		if !ValidStatus(nextStatus) {
			return Quotation{}, httpx.NewValidationError(map[string]string{"status": "unknown status"})
		}
		if !existing.Status.CanTransitionTo(nextStatus) {
			return Quotation{}, fmt.Errorf("%s to %s: %w", existing.Status, nextStatus, ErrInvalidStatus)
		}
	}
	if req.Type != nil && !ValidType(*req.Type) {
		return Quotation{}, httpx.NewValidationError(map[string]string{"type": "unknown shipment type"})
	}

	buy, sell := existing.BuyRate, existing.SellRate
	if req.BuyRate != nil {
		buy = req.BuyRate
	}
	if req.SellRate != nil {
		sell = req.SellRate
	}
	if req.ClearBuyRate {
		buy = nil
	}
	if req.ClearSellRate {
		sell = nil
	}
	if err := validateRateCompleteness(nextStatus, buy, sell); err != nil {
		return Quotation{}, err
	}
	if err := validateRateSigns(buy, sell); err != nil {
		return Quotation{}, err
	}

	return s.repo.Update(ctx, id, req)
}

// Submit moves a draft quotation to SUBMITTED. Both rates must be
// resolved first.
func (s *Service) Submit(ctx context.Context, id string) (Quotation, error) {
	status := StatusSubmitted
	return s.Update(ctx, id, UpdateQuotationRequest{Status: &status})
}

// Cancel voids a quotation that has not completed a booking.
func (s *Service) Cancel(ctx context.Context, id string) (Quotation, error) {
	status := StatusCancelled
	return s.Update(ctx, id, UpdateQuotationRequest{Status: &status})
}

// MarkBookingCompleted records that a booking was created from this
// quotation. System transition: not reachable through Update.
func (s *Service) MarkBookingCompleted(ctx context.Context, id string) (Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Quotation{}, err
	}
	switch existing.Status {
	case StatusCancelled, StatusBookingCompleted:
		return Quotation{}, fmt.Errorf("%s to %s: %w", existing.Status, StatusBookingCompleted, ErrInvalidStatus)
	}
	status := StatusBookingCompleted
	return s.repo.Update(ctx, id, UpdateQuotationRequest{Status: &status})
}

// RevertToSubmitted compensates a booking deletion by returning the
// source quotation to SUBMITTED.
func (s *Service) RevertToSubmitted(ctx context.Context, id string) (Quotation, error) {
	status := StatusSubmitted
	return s.repo.Update(ctx, id, UpdateQuotationRequest{Status: &status})
}

// Delete removes a quotation unless a completed booking references it.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing.Status == StatusBookingCompleted {
		return false, ErrDeleteBooked
	}
	return s.repo.Delete(ctx, id)
}

func validateHeader(customer, pol, pod, equipment string, typ ShipmentType, status QuotationStatus) error {
	fields := make(map[string]string)
	if strings.TrimSpace(customer) == "" {
		fields["customer_name"] = "customer name is required"
	}
	if strings.TrimSpace(pol) == "" {
		fields["pol"] = "port of loading is required"
	}
	if strings.TrimSpace(pod) == "" {
		fields["pod"] = "port of discharge is required"
	}
	if strings.TrimSpace(equipment) == "" {
		fields["equipment"] = "equipment is required"
	}
	if !ValidType(typ) {
		fields["type"] = "unknown shipment type"
	}
	if !ValidStatus(status) {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return httpx.NewValidationError(fields)
	}
	return nil
}

// validateRateCompleteness enforces the submission rule: any status other
// than DRAFT requires both rates to be resolved.
func validateRateCompleteness(status QuotationStatus, buy, sell *pricing.Money) error {
	if status == StatusDraft {
		return nil
	}
	fields := make(map[string]string)
	if buy == nil {
		fields["buy_rate"] = "buy rate is required before submission"
	}
	if sell == nil {
		fields["sell_rate"] = "sell rate is required before submission"
	}
	if len(fields) > 0 {
		return httpx.NewValidationError(fields)
	}
	return nil
}

func validateRateSigns(buy, sell *pricing.Money) error {
	fields := make(map[string]string)
	if buy != nil && buy.IsNegative() {
		fields["buy_rate"] = "buy rate must not be negative"
	}
	if sell != nil && sell.IsNegative() {
		fields["sell_rate"] = "sell rate must not be negative"
	}
	if len(fields) > 0 {
		return httpx.NewValidationError(fields)
	}
	return nil
}
