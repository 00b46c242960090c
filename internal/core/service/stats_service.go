package service

import (
	"context"
	"math"
	"time"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

const DefaultPlatformShare = 0.2

// StatsService folds the current ledger into dashboard projections.
type StatsService struct {
	repo          ports.OrderRepository
	platformShare float64
}

// NewStatsService returns a StatsService. The partner share is the remainder
// of the platform share. Out-of-range shares fall back to DefaultPlatformShare.
func NewStatsService(repo ports.OrderRepository, platformShare float64) *StatsService {
	if platformShare < 0 || platformShare > 1 {
		platformShare = DefaultPlatformShare
	}
	return &StatsService{repo: repo, platformShare: platformShare}
}

func (s *StatsService) Admin(ctx context.Context) (*ports.AdminStats, error) {
	orders, err := s.repo.List(ctx, ports.OrderFilter{})
	if err != nil {
		return nil, err
	}

	st := &ports.AdminStats{
		TotalOrders: len(orders),
		ByStatus:    make(map[string]int, len(domain.AllStatuses())),
	}
	for _, status := range domain.AllStatuses() {
		st.ByStatus[string(status)] = 0
	}

	for _, o := range orders {
		st.ByStatus[string(o.Status)]++
		switch o.Status {
		case domain.StatusPending:
			st.PendingOrders++
		case domain.StatusAssigned, domain.StatusInProgress:
			st.InProgressOrders++
		case domain.StatusCompleted:
			st.CompletedOrders++
		}
		if o.PaymentStatus == domain.PaymentPaid {
			st.PaidOrders++
			st.PlatformRevenue += o.Price * s.platformShare
		}
	}
	st.AverageRating = averageRating(orders)
	return st, nil
}

// Partner computes earnings over completed orders at the partner share.
// today selects which booking date counts towards TodayOrders.
func (s *StatsService) Partner(ctx context.Context, partnerID string, today time.Time) (*ports.PartnerStats, error) {
	orders, err := s.repo.List(ctx, ports.OrderFilter{PartnerID: partnerID, IncludeUnclaimed: true})
	if err != nil {
		return nil, err
	}

	partnerShare := 1 - s.platformShare
	day := today.Format(time.DateOnly)

	st := &ports.PartnerStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case domain.StatusAssigned:
			st.AssignedOrders++
		case domain.StatusInProgress:
			st.InProgressOrders++
		case domain.StatusCompleted:
			st.CompletedOrders++
			st.Earnings += o.Price * partnerShare
		}
		if o.Date == day {
			st.TodayOrders++
		}
	}
	st.AverageRating = averageRating(orders)
	return st, nil
}

func (s *StatsService) User(ctx context.Context, userID string) (*ports.UserStats, error) {
	orders, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &ports.UserStats{TotalOrders: len(orders)}
	for _, o := range orders {
		if o.Status.IsActive() {
			st.ActiveOrders++
		}
		if o.Status == domain.StatusCompleted {
			st.CompletedOrders++
		}
	}
	st.AverageRating = averageRating(orders)
	return st, nil
}

// averageRating is the mean rating over reviewed orders rounded to one
// decimal, or 0 when nothing is reviewed.
func averageRating(orders []*domain.Order) float64 {
	sum, n := 0, 0
	for _, o := range orders {
		if o.Review != nil {
			sum += o.Review.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
