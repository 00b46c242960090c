package ports

import (
	"context"
	"time"
)

// AdminStats is the platform-wide projection shown to administrators.
type AdminStats struct {
	TotalOrders      int
	ByStatus         map[string]int
	PendingOrders    int
	InProgressOrders int
	CompletedOrders  int
	PaidOrders       int
	PlatformRevenue  float64
	AverageRating    float64
}

// PartnerStats is the projection over the orders visible to one partner.
type PartnerStats struct {
	TotalOrders      int
	AssignedOrders   int
	InProgressOrders int
	CompletedOrders  int
	TodayOrders      int
	Earnings         float64
	AverageRating    float64
}

// UserStats is the projection over one end-user's orders.
type UserStats struct {
	TotalOrders     int
	ActiveOrders    int
	CompletedOrders int
	AverageRating   float64
}

// StatsService computes read-only projections from the ledger on every call.
type StatsService interface {
	Admin(ctx context.Context) (*AdminStats, error)
	Partner(ctx context.Context, partnerID string, today time.Time) (*PartnerStats, error)
	User(ctx context.Context, userID string) (*UserStats, error)
}
