package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

var errDuplicateOrder = errors.New("order id already exists")

// OrderRepository is an in-memory order ledger. Orders are kept in insertion
// order; reads and writes exchange clones.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	index  map[string]int
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{index: map[string]int{}}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[o.ID]; exists {
		return errDuplicateOrder
	}
	r.index[o.ID] = len(r.orders)
	r.orders = append(r.orders, o.Clone())
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return r.orders[i].Clone(), nil
}

func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.List(ctx, ports.OrderFilter{UserID: ownerID})
}

func (r *OrderRepository) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if matches(o, f) {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, partnerID, partnerName string) (*domain.Order, error) {
	return r.mutate(id, func(o *domain.Order) {
		o.Status = status
		if partnerID != "" {
			o.PartnerID = partnerID
		}
		if partnerName != "" {
			o.PartnerName = partnerName
		}
	})
}

func (r *OrderRepository) UpdatePayment(_ context.Context, id string, payment domain.PaymentStatus) (*domain.Order, error) {
	return r.mutate(id, func(o *domain.Order) { o.PaymentStatus = payment })
}

func (r *OrderRepository) Assign(_ context.Context, id, partnerID, partnerName string) (*domain.Order, error) {
	return r.mutate(id, func(o *domain.Order) {
		o.Status = domain.StatusAssigned
		o.PaymentStatus = domain.PaymentPaid
		if partnerID != "" {
			o.PartnerID = partnerID
		}
		if partnerName != "" {
			o.PartnerName = partnerName
		}
	})
}

func (r *OrderRepository) SetReview(_ context.Context, id string, review domain.Review) (*domain.Order, error) {
	return r.mutate(id, func(o *domain.Order) { o.Review = &review })
}

func (r *OrderRepository) mutate(id string, fn func(*domain.Order)) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	fn(r.orders[i])
	return r.orders[i].Clone(), nil
}

func matches(o *domain.Order, f ports.OrderFilter) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.PartnerID != "" {
		mine := o.PartnerID == f.PartnerID
		unclaimed := f.IncludeUnclaimed && o.Status == domain.StatusAssigned
		if !mine && !unclaimed {
			return false
		}
	}
	return true
}
