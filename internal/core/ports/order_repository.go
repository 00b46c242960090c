package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// OrderFilter narrows List results. Zero values mean "no filter".
type OrderFilter struct {
	Status domain.OrderStatus
	UserID string
	// PartnerID matches orders assigned to the partner. When IncludeUnclaimed
	// is set, orders in status assigned are matched regardless of partner.
	PartnerID        string
	IncludeUnclaimed bool
}

// OrderRepository defines persistence operations for the order ledger.
// All list operations return orders in insertion order.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	// UpdateStatus overwrites the status. Partner fields are only written when
	// non-empty.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, partnerID, partnerName string) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id string, payment domain.PaymentStatus) (*domain.Order, error)
	// Assign sets status assigned, the partner fields and payment paid in a
	// single write.
	Assign(ctx context.Context, id, partnerID, partnerName string) (*domain.Order, error)
	SetReview(ctx context.Context, id string, review domain.Review) (*domain.Order, error)
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim binds key to orderID if unbound. When the key is already bound it
	// returns the bound order id and claimed=false.
	Claim(ctx context.Context, key, orderID string) (existing string, claimed bool, err error)
	Release(ctx context.Context, key string) error
}
