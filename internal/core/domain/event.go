package domain

import "time"

// OrderEventKind names the ledger mutation that produced an event.
type OrderEventKind string

const (
	EventCreated        OrderEventKind = "created"
	EventStatusChanged  OrderEventKind = "status_changed"
	EventPaymentChanged OrderEventKind = "payment_changed"
	EventReviewed       OrderEventKind = "reviewed"
)

// OrderEvent records a single mutation of the order ledger.
type OrderEvent struct {
	OrderID        string         `json:"order_id" bson:"order_id"`
	Kind           OrderEventKind `json:"kind" bson:"kind"`
	Status         OrderStatus    `json:"status" bson:"status"`
	PreviousStatus OrderStatus    `json:"previous_status,omitempty" bson:"previous_status,omitempty"`
	PaymentStatus  PaymentStatus  `json:"payment_status" bson:"payment_status"`
	ActorID        string         `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Timestamp      time.Time      `json:"timestamp" bson:"timestamp"`
}
