package usecase

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// RejectOrder declines the payment and restores the reserved stock. The
// reason is mandatory: it is persisted on the order and sent to the customer.
func (uc *DefaultOrderUsecase) RejectOrder(ctx context.Context, orderID, actor, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Reason: "rejection reason must not be empty"}
	}
	return uc.ProcessOrderOperation(ctx, &OrderOperation{
		OrderID:   orderID,
		Operation: "reject_order",
		Actor:     actor,
		NewStatus: domain.StatusRejected,
		Reason:    reason,
	})
}
