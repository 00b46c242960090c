package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// CreateOrderInput carries all data needed to book a service.
type CreateOrderInput struct {
	UserID         string
	Service        string
	Details        string
	Address        string
	Date           string
	Time           string
	Price          float64
	IdempotencyKey string
}

// CreateOrderResult is returned after booking.
type CreateOrderResult struct {
	OrderID string
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderLedger defines the order use cases.
type OrderLedger interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus, partnerID, partnerName string) error
	SetPaymentStatus(ctx context.Context, id string, payment domain.PaymentStatus) error
	AttachReview(ctx context.Context, id string, rating int, comment string) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	AssignPartner(ctx context.Context, id, partnerID, partnerName string) error
	AdvanceByPartner(ctx context.Context, partner *domain.Identity, id string, status domain.OrderStatus) error
	Cancel(ctx context.Context, id string) error
	SubmitReview(ctx context.Context, ownerID, id string, rating int, comment string) error
	ListForPartner(ctx context.Context, partnerID string) ([]*domain.Order, error)
}
