package usecase

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// DeliverOrder closes out a shipped order.
func (uc *DefaultOrderUsecase) DeliverOrder(ctx context.Context, orderID, actor, notes string) (*domain.Order, error) {
	op := &OrderOperation{
		OrderID:   orderID,
		Operation: "deliver_order",
		Actor:     actor,
		NewStatus: domain.StatusDelivered,
	}
	if notes != "" {
		op.Metadata = map[string]string{"notes": notes}
	}
	return uc.ProcessOrderOperation(ctx, op)
}
