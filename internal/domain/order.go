package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPendingAdmin OrderStatus = "PENDING_ADMIN"
	StatusPaid         OrderStatus = "PAID"
	StatusShipped      OrderStatus = "SHIPPED"
	StatusDelivered    OrderStatus = "DELIVERED"
	StatusCancelled    OrderStatus = "CANCELLED"
	StatusRejected     OrderStatus = "REJECTED"
)

// validTransitions is the authoritative transition table. A status with an
// empty target set is terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingAdmin: {StatusPaid, StatusRejected, StatusCancelled},
	StatusPaid:         {StatusShipped, StatusCancelled},
	StatusShipped:      {StatusDelivered, StatusCancelled},
	StatusDelivered:    {},
	StatusCancelled:    {},
	StatusRejected:     {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	targets, ok := validTransitions[s]
	return ok && len(targets) == 0
}

// AllowedTargets returns a copy of the transition table row for s.
func (s OrderStatus) AllowedTargets() []OrderStatus {
	targets := validTransitions[s]
	out := make([]OrderStatus, len(targets))
	copy(out, targets)
	return out
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ShouldRestoreStock reports whether a transition to target must credit the
// reserved stock back to the ledger.
func ShouldRestoreStock(target OrderStatus) bool {
	return target == StatusCancelled || target == StatusRejected
}

// InvalidTransitionError is a business-rule violation: the requested target
// is not reachable from the order's current status. It is returned verbatim
// to the caller and is never retried.
type InvalidTransitionError struct {
	OrderID string
	From    OrderStatus
	To      OrderStatus
	Allowed []OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("order %s: cannot transition %s -> %s (allowed: %s)",
		e.OrderID, e.From, e.To, strings.Join(allowed, ", "))
}

func NewInvalidTransitionError(orderID string, from, to OrderStatus) *InvalidTransitionError {
	return &InvalidTransitionError{
		OrderID: orderID,
		From:    from,
		To:      to,
		Allowed: from.AllowedTargets(),
	}
}

// OrderItem is an immutable snapshot of a purchased position. Quantities
// drive stock reservation and release deltas and never change after the
// order is created.
type OrderItem struct {
	ProductID string
	VariantID string
	Quantity  int32
	UnitPrice float64
}

type TrackingInfo struct {
	Carrier        string
	TrackingNumber string
}

type Order struct {
	ID              string
	OrderNumber     string
	StoreID         string
	CustomerID      string
	CustomerChannel string
	Status          OrderStatus
	TotalAmount     float64
	Currency        string
	Items           []OrderItem
	ActiveProofID   string
	RejectionReason string
	Tracking        *TrackingInfo
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RejectedAt      *time.Time
}

// ApplyTransition mutates the order to the target status and stamps the
// matching per-state timestamp. Callers must hold the per-order lock.
func (o *Order) ApplyTransition(target OrderStatus, at time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.ID, o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = at
	switch target {
	case StatusPaid:
		o.PaidAt = &at
	case StatusShipped:
		o.ShippedAt = &at
	case StatusDelivered:
		o.DeliveredAt = &at
	case StatusCancelled:
		o.CancelledAt = &at
	case StatusRejected:
		o.RejectedAt = &at
	}
	return nil
}

func (o *Order) StockItems() []StockItem {
	items := make([]StockItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = StockItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		}
	}
	return items
}
