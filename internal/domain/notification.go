package domain

import (
	"context"
	"time"
)

type NotificationTemplate string

const (
	TemplateOrderCreated       NotificationTemplate = "order_created"
	TemplatePaymentConfirmed   NotificationTemplate = "payment_confirmed"
	TemplateOrderShipped       NotificationTemplate = "order_shipped"
	TemplateOrderDelivered     NotificationTemplate = "order_delivered"
	TemplateOrderCancelled     NotificationTemplate = "order_cancelled"
	TemplateOrderRejected      NotificationTemplate = "order_rejected"
	TemplatePaymentNeedsReview NotificationTemplate = "payment_needs_review"
)

// TemplateForStatus maps a committed target status to the customer-facing
// message template for it.
func TemplateForStatus(status OrderStatus) (NotificationTemplate, bool) {
	switch status {
	case StatusPaid:
		return TemplatePaymentConfirmed, true
	case StatusShipped:
		return TemplateOrderShipped, true
	case StatusDelivered:
		return TemplateOrderDelivered, true
	case StatusCancelled:
		return TemplateOrderCancelled, true
	case StatusRejected:
		return TemplateOrderRejected, true
	}
	return "", false
}

// OrderContext is the payload rendered into a notification message.
type OrderContext struct {
	OrderID     string
	OrderNumber string
	Status      OrderStatus
	TotalAmount float64
	Currency    string
	Reason      string
}

// DeliveryResult reports the fate of one notification after all retry
// attempts are spent.
type DeliveryResult struct {
	ChannelID string
	Delivered bool
	Attempts  int
	Error     string
}

type BulkDeliveryResult struct {
	Success int
	Failed  int
	Results []DeliveryResult
}

// NotificationJob tracks a single delivery through its retry attempts. Jobs
// are created per transition and discarded on success or after retries are
// exhausted; a permanent failure is logged, never re-queued.
type NotificationJob struct {
	ChannelID   string
	Template    NotificationTemplate
	Order       OrderContext
	Attempts    int
	NextRetryAt time.Time
	Done        bool
	Failed      bool
}

// Transport is the opaque outbound messaging collaborator. It must return
// an error wrapping ErrInvalidChannel for permanently undeliverable
// channels so the dispatcher can skip retries.
type Transport interface {
	Send(ctx context.Context, channelID string, message string) error
}
