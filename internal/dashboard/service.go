package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/harborline/harborline/internal/bookings"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
	"github.com/harborline/harborline/internal/store"
)

// Stats is the aggregate snapshot the landing page renders.
type Stats struct {
	QuotationsByStatus map[quotations.QuotationStatus]int `json:"quotations_by_status"`
	BookingsByStatus   map[bookings.BookingStatus]int     `json:"bookings_by_status"`
	QuotationProfit    pricing.Money                      `json:"quotation_profit"`
	BookingProfit      pricing.Money                      `json:"booking_profit"`
	MonthlyQuotations  []MonthlyCount                     `json:"monthly_quotations"`
	MonthlyBookings    []MonthlyCount                     `json:"monthly_bookings"`
	GeneratedAt        time.Time                          `json:"generated_at"`
}

// MonthlyCount is a created-records count for one calendar month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// QuotationLister is the slice of the quotations service the dashboard reads.
type QuotationLister interface {
	SearchByText(ctx context.Context, term string) ([]quotations.Quotation, error)
}

// BookingLister is the slice of the bookings service the dashboard reads.
type BookingLister interface {
	SearchByText(ctx context.Context, term string) ([]bookings.Booking, error)
}

// Service computes dashboard aggregates. Concurrent requests share one
// computation through singleflight, and a short-lived snapshot absorbs
// refresh bursts.
type Service struct {
	quotations QuotationLister
	bookings   BookingLister
	clock      store.Clock
	ttl        time.Duration

	group singleflight.Group

	mu       sync.Mutex
	snapshot *Stats
	expires  time.Time
}

// NewService constructs a Service. ttl bounds snapshot staleness; zero
// means ten seconds.
func NewService(quotations QuotationLister, bookings BookingLister, clock store.Clock, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Service{quotations: quotations, bookings: bookings, clock: clock, ttl: ttl}
}

// Stats returns the current aggregate snapshot.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	if s.snapshot != nil && s.clock().Before(s.expires) {
		snap := *s.snapshot
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("stats", func() (any, error) {
		snap, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snapshot = &snap
		s.expires = s.clock().Add(s.ttl)
		s.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

func (s *Service) compute(ctx context.Context) (Stats, error) {
	qs, err := s.quotations.SearchByText(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	bs, err := s.bookings.SearchByText(ctx, "")
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		QuotationsByStatus: make(map[quotations.QuotationStatus]int),
		BookingsByStatus:   make(map[bookings.BookingStatus]int),
		GeneratedAt:        s.clock(),
	}
	qMonths := make(map[string]int)
	for _, q := range qs {
		stats.QuotationsByStatus[q.Status]++
		stats.QuotationProfit += q.ProfitAndLoss
		qMonths[q.CreatedAt.Format("2006-01")]++
	}
	bMonths := make(map[string]int)
	for _, b := range bs {
		stats.BookingsByStatus[b.Status]++
		stats.BookingProfit += b.ProfitAndLoss
		bMonths[b.CreatedAt.Format("2006-01")]++
	}
	stats.MonthlyQuotations = sortedMonths(qMonths)
	stats.MonthlyBookings = sortedMonths(bMonths)
	return stats, nil
}

func sortedMonths(counts map[string]int) []MonthlyCount {
	out := make([]MonthlyCount, 0, len(counts))
	for month, count := range counts {
		out = append(out, MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
