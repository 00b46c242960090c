package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAssigned   OrderStatus = "assigned"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents the (simulated) payment state of an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// validTransitions defines the intended state machine. It is only enforced
// when the ledger runs with the strict transition policy.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidPayment    = errors.New("invalid payment status")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidRating     = errors.New("rating must be an integer between 1 and 5")
	ErrReviewNotAllowed  = errors.New("order cannot be reviewed")
	ErrForbidden         = errors.New("access forbidden")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether the order is still being worked on.
func (s OrderStatus) IsActive() bool {
	return s == StatusPending || s == StatusAssigned || s == StatusInProgress
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid
}

// AllStatuses lists every order status in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is the owner's feedback on a completed order.
type Review struct {
	Rating  int    `json:"rating" bson:"rating"`
	Comment string `json:"comment" bson:"comment"`
}

// ValidRating reports whether r is within the accepted rating range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Order is a single requested service instance.
type Order struct {
	ID            string        `json:"id" bson:"_id"`
	UserID        string        `json:"user_id" bson:"user_id"`
	Service       string        `json:"service" bson:"service"`
	Details       string        `json:"details" bson:"details"`
	Address       string        `json:"address" bson:"address"`
	Date          string        `json:"date" bson:"date"`
	Time          string        `json:"time" bson:"time"`
	Status        OrderStatus   `json:"status" bson:"status"`
	PartnerID     string        `json:"partner_id,omitempty" bson:"partner_id,omitempty"`
	PartnerName   string        `json:"partner_name,omitempty" bson:"partner_name,omitempty"`
	Price         float64       `json:"price" bson:"price"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	Review        *Review       `json:"review,omitempty" bson:"review,omitempty"`
}

// Clone returns a deep copy so callers never share the stored review pointer.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Review != nil {
		r := *o.Review
		c.Review = &r
	}
	return &c
}

// Reviewable reports whether the owner may still leave a review.
func (o *Order) Reviewable() bool {
	return o.Status == StatusCompleted && o.Review == nil
}
