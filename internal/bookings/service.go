package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harborline/harborline/internal/platform/httpx"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
)

var (
	// ErrInvalidStatus reports an illegal lifecycle move.
	ErrInvalidStatus = fmt.Errorf("illegal status transition: %w", httpx.ErrConflict)
)

// CompensationError reports a half-finished booking deletion: the booking
// is gone but the source quotation could not be reverted to SUBMITTED.
// The quotation id is carried so an operator can repair the record.
type CompensationError struct {
	QuotationID string
	Err         error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("booking deleted but quotation %s was not reverted to SUBMITTED: %v", e.QuotationID, e.Err)
}

func (e *CompensationError) Unwrap() error { return httpx.ErrConflict }

// QuotationSource is the slice of the quotations service the booking
// lifecycle needs: reads plus the two system transitions that bracket a
// booking's existence.
type QuotationSource interface {
	Get(ctx context.Context, id string) (quotations.Quotation, error)
	SearchByText(ctx context.Context, term string) ([]quotations.Quotation, error)
	MarkBookingCompleted(ctx context.Context, id string) (quotations.Quotation, error)
	RevertToSubmitted(ctx context.Context, id string) (quotations.Quotation, error)
}

// Service wraps booking business rules around the repository. Creating
// and deleting a booking also moves the source quotation, so the service
// owns both sides of those two-step commands.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	quotations QuotationSource
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, quotations QuotationSource) *Service {
	return &Service{logger: logger, repo: repo, quotations: quotations}
}

// List returns a page of bookings.
func (s *Service) List(ctx context.Context, req ListBookingsRequest) ([]Booking, int, error) {
	return s.repo.List(ctx, req)
}

// Get returns a booking by id.
func (s *Service) Get(ctx context.Context, id string) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// SearchByText matches bookings by id, quotation id or customer name.
func (s *Service) SearchByText(ctx context.Context, term string) ([]Booking, error) {
	return s.repo.SearchByText(ctx, term)
}

// Create derives a booking from a quotation: header fields and the sell
// rate are copied, the buy rate is booking-specific and defaults to zero.
// On success the source quotation moves to BOOKING_COMPLETED; if that
// move is rejected the booking is rolled back so neither side changes.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (Booking, error) {
	source, err := s.quotations.Get(ctx, req.QuotationID)
	if err != nil {
		return Booking{}, err
	}
	switch source.Status {
	case quotations.StatusCancelled, quotations.StatusBookingCompleted:
		return Booking{}, fmt.Errorf("quotation %s is %s: %w", source.ID, source.Status, ErrInvalidStatus)
	}

	buy := pricing.Money(0)
	if req.BuyRate != nil {
		buy = *req.BuyRate
	}
	if buy.IsNegative() {
		return Booking{}, httpx.NewValidationError(map[string]string{"buy_rate": "buy rate must not be negative"})
	}
	sell := pricing.Money(0)
	if source.SellRate != nil {
		sell = *source.SellRate
	}

	b := Booking{
		QuotationID:           source.ID,
		CustomerName:          source.CustomerName,
		POL:                   source.POL,
		POD:                   source.POD,
		Equipment:             source.Equipment,
		Volume:                source.Volume,
		Type:                  source.Type,
		BuyRate:               buy,
		SellRate:              sell,
		Status:                StatusBooked,
		SelectedCarrierRateID: req.SelectedCarrierRateID,
		Notes:                 strings.TrimSpace(req.Notes),
	}
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Booking{}, err
	}

	if _, err := s.quotations.MarkBookingCompleted(ctx, source.ID); err != nil {
		if _, rollbackErr := s.repo.Delete(ctx, created.ID); rollbackErr != nil {
			s.logger.Error("booking rollback failed",
				slog.String("booking_id", created.ID),
				slog.Any("error", rollbackErr))
		}
		return Booking{}, err
	}
	return created, nil
}

// Update applies a partial update after lifecycle and sign checks.
// Validation failures leave the stored record untouched.
func (s *Service) Update(ctx context.Context, id string, req UpdateBookingRequest) (Booking, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return Booking{}, httpx.NewValidationError(map[string]string{"status": "unknown status"})
		}
		if !existing.Status.CanTransitionTo(*req.Status) {
			return Booking{}, fmt.Errorf("%s to %s: %w", existing.Status, *req.Status, ErrInvalidStatus)
		}
	}
	fields := make(map[string]string)
	if req.BuyRate != nil && req.BuyRate.IsNegative() {
		fields["buy_rate"] = "buy rate must not be negative"
	}
	if req.SellRate != nil && req.SellRate.IsNegative() {
		fields["sell_rate"] = "sell rate must not be negative"
	}
	if len(fields) > 0 {
		return Booking{}, httpx.NewValidationError(fields)
	}
	return s.repo.Update(ctx, id, req)
}

// Ship marks the cargo as on the water.
func (s *Service) Ship(ctx context.Context, id string) (Booking, error) {
	status := StatusShipped
	return s.Update(ctx, id, UpdateBookingRequest{Status: &status})
}

// Deliver closes out a shipped booking.
func (s *Service) Deliver(ctx context.Context, id string) (Booking, error) {
	status := StatusDelivered
	return s.Update(ctx, id, UpdateBookingRequest{Status: &status})
}

// Cancel voids a booking that has not been delivered.
func (s *Service) Cancel(ctx context.Context, id string) (Booking, error) {
	status := StatusCancelled
	return s.Update(ctx, id, UpdateBookingRequest{Status: &status})
}

// Delete removes a booking and compensates on the quotation side: the
// source record returns to SUBMITTED so it can be booked again. The two
// steps run in that order; if the second fails the deletion stands and a
// CompensationError names the stranded quotation.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	if existing.QuotationID == "" {
		return true, nil
	}
	if _, err := s.quotations.RevertToSubmitted(ctx, existing.QuotationID); err != nil {
		s.logger.Error("booking delete compensation failed",
			slog.String("booking_id", id),
			slog.String("quotation_id", existing.QuotationID),
			slog.Any("error", err))
		return true, &CompensationError{QuotationID: existing.QuotationID, Err: err}
	}
	return true, nil
}
