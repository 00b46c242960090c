package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// TransitionPolicy selects whether SetStatus enforces the state machine.
type TransitionPolicy string

const (
	// PolicyPermissive accepts any status for any order.
	PolicyPermissive TransitionPolicy = "permissive"
	// PolicyStrict only accepts transitions allowed by domain.OrderStatus.CanTransitionTo.
	PolicyStrict TransitionPolicy = "strict"
)

var ErrUnknownPolicy = errors.New("unknown transition policy")

// ParseTransitionPolicy maps a config value to a TransitionPolicy. Empty
// means permissive.
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch TransitionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

var ErrInvalidOrder = errors.New("invalid order")

// OrderService is the order ledger.
type OrderService struct {
	repo        ports.OrderRepository
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	policy      TransitionPolicy
	ids         *idGenerator
	now         func() time.Time
	logger      zerolog.Logger
}

// OrderOption customises an OrderService.
type OrderOption func(*OrderService)

func WithIdempotency(store ports.IdempotencyStore) OrderOption {
	return func(s *OrderService) { s.idempotency = store }
}

func WithEventPublisher(p ports.EventPublisher) OrderOption {
	return func(s *OrderService) { s.events = p }
}

func WithTransitionPolicy(p TransitionPolicy) OrderOption {
	return func(s *OrderService) { s.policy = p }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:   repo,
		policy: PolicyPermissive,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = newIDGenerator(s.now)
	return s
}

// CreateOrder books a service. The new order starts pending/pending. If an
// idempotency key is provided and already bound, the earlier order id is
// returned without side effects.
func (s *OrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if in.UserID == "" || in.Service == "" || in.Price < 0 {
		return nil, ErrInvalidOrder
	}

	id := s.ids.Next()

	// Keys are scoped to the caller so two users can never collide.
	key := ""
	if in.IdempotencyKey != "" && s.idempotency != nil {
		key = in.UserID + ":" + in.IdempotencyKey
		existing, claimed, err := s.idempotency.Claim(ctx, key, id)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, creating anyway")
			key = ""
		case !claimed:
			if s.ownedBy(ctx, existing, in.UserID) {
				s.logger.Info().Str("idempotency_key", key).Str("order_id", existing).Msg("idempotent replay")
				return &ports.CreateOrderResult{OrderID: existing, AlreadyExisted: true}, nil
			}
			s.logger.Warn().Str("idempotency_key", key).Str("order_id", existing).Msg("idempotency key bound to a foreign order, creating anyway")
			key = ""
		}
	}

	order := &domain.Order{
		ID:            id,
		UserID:        in.UserID,
		Service:       in.Service,
		Details:       in.Details,
		Address:       in.Address,
		Date:          in.Date,
		Time:          in.Time,
		Status:        domain.StatusPending,
		Price:         in.Price,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", in.UserID).Str("service", in.Service).Msg("order created")
	s.publish(order, domain.EventCreated, "", in.UserID)

	return &ports.CreateOrderResult{OrderID: order.ID}, nil
}

// ownedBy reports whether the order bound to an idempotency key belongs to userID.
func (s *OrderService) ownedBy(ctx context.Context, orderID, userID string) bool {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return false
	}
	return o.UserID == userID
}

// SetStatus overwrites the status and, when supplied, the partner fields.
// Under PolicyStrict an illegal transition is rejected with
// domain.ErrInvalidTransition.
func (s *OrderService) SetStatus(ctx context.Context, id string, status domain.OrderStatus, partnerID, partnerName string) error {
	_, err := s.setStatus(ctx, id, status, partnerID, partnerName, "")
	return err
}

func (s *OrderService) setStatus(ctx context.Context, id string, status domain.OrderStatus, partnerID, partnerName, actorID string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("set status: %w: %q", domain.ErrInvalidStatus, status)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	if s.policy == PolicyStrict && !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("set status: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, partnerID, partnerName)
	if err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("order status changed")
	s.publish(updated, domain.EventStatusChanged, current.Status, actorID)

	return updated, nil
}

// SetPaymentStatus overwrites the payment status unconditionally.
func (s *OrderService) SetPaymentStatus(ctx context.Context, id string, payment domain.PaymentStatus) error {
	if !payment.Valid() {
		return fmt.Errorf("set payment: %w: %q", domain.ErrInvalidPayment, payment)
	}

	updated, err := s.repo.UpdatePayment(ctx, id, payment)
	if err != nil {
		return fmt.Errorf("set payment: %w", err)
	}

	s.logger.Info().Str("order_id", id).Str("payment_status", string(payment)).Msg("payment status changed")
	s.publish(updated, domain.EventPaymentChanged, "", "")
	return nil
}

// AttachReview overwrites the review of an order. Calling it twice keeps the
// last review. Callers decide whether the order may be reviewed.
func (s *OrderService) AttachReview(ctx context.Context, id string, rating int, comment string) error {
	if !domain.ValidRating(rating) {
		return domain.ErrInvalidRating
	}

	updated, err := s.repo.SetReview(ctx, id, domain.Review{Rating: rating, Comment: comment})
	if err != nil {
		return fmt.Errorf("attach review: %w", err)
	}

	s.logger.Info().Str("order_id", id).Int("rating", rating).Msg("review attached")
	s.publish(updated, domain.EventReviewed, "", updated.UserID)
	return nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByOwner returns the owner's orders in the order they were created.
func (s *OrderService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *OrderService) List(ctx context.Context, filter ports.OrderFilter) ([]*domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// AssignPartner is the administrator assignment flow: the order becomes
// assigned to the partner and its payment is marked paid (simulated charge).
// Both fields are written together.
func (s *OrderService) AssignPartner(ctx context.Context, id, partnerID, partnerName string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("assign partner: %w", err)
	}
	if s.policy == PolicyStrict && !current.Status.CanTransitionTo(domain.StatusAssigned) {
		return fmt.Errorf("assign partner: %w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.StatusAssigned)
	}

	updated, err := s.repo.Assign(ctx, id, partnerID, partnerName)
	if err != nil {
		return fmt.Errorf("assign partner: %w", err)
	}

	s.logger.Info().
		Str("order_id", id).
		Str("partner_id", updated.PartnerID).
		Str("from", string(current.Status)).
		Msg("order assigned")
	s.publish(updated, domain.EventStatusChanged, current.Status, "")
	s.publish(updated, domain.EventPaymentChanged, "", "")
	return nil
}

// AdvanceByPartner lets a partner start or finish work on an order that is
// assigned to them or still unclaimed in status assigned.
func (s *OrderService) AdvanceByPartner(ctx context.Context, partner *domain.Identity, id string, status domain.OrderStatus) error {
	if partner == nil || partner.Role != domain.RolePartner {
		return domain.ErrForbidden
	}
	if status != domain.StatusInProgress && status != domain.StatusCompleted {
		return fmt.Errorf("advance order: %w: partners may only set in_progress or completed", domain.ErrInvalidTransition)
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.PartnerID != partner.ID && order.Status != domain.StatusAssigned {
		return domain.ErrForbidden
	}

	_, err = s.setStatus(ctx, id, status, partner.ID, partner.Name, partner.ID)
	return err
}

// Cancel is the administrator cancel action.
func (s *OrderService) Cancel(ctx context.Context, id string) error {
	_, err := s.setStatus(ctx, id, domain.StatusCancelled, "", "", "")
	return err
}

// SubmitReview is the owner review flow: only the owner, only once, and only
// after the order is completed.
func (s *OrderService) SubmitReview(ctx context.Context, ownerID, id string, rating int, comment string) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.UserID != ownerID {
		return domain.ErrForbidden
	}
	if !order.Reviewable() {
		return domain.ErrReviewNotAllowed
	}
	return s.AttachReview(ctx, id, rating, comment)
}

// ListForPartner returns orders assigned to the partner plus every order
// still waiting in status assigned.
func (s *OrderService) ListForPartner(ctx context.Context, partnerID string) ([]*domain.Order, error) {
	return s.repo.List(ctx, ports.OrderFilter{PartnerID: partnerID, IncludeUnclaimed: true})
}

func (s *OrderService) publish(o *domain.Order, kind domain.OrderEventKind, previous domain.OrderStatus, actorID string) {
	if s.events == nil || o == nil {
		return
	}
	s.events.Publish(domain.OrderEvent{
		OrderID:        o.ID,
		Kind:           kind,
		Status:         o.Status,
		PreviousStatus: previous,
		PaymentStatus:  o.PaymentStatus,
		ActorID:        actorID,
		Timestamp:      s.now().UTC(),
	})
}
