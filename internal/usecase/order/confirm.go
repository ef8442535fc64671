package usecase

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// ConfirmPayment moves the order to PAID. Admins call it directly; the
// verification pipeline calls it with the system actor after an
// auto-approved proof.
func (uc *DefaultOrderUsecase) ConfirmPayment(ctx context.Context, orderID, actor string, metadata map[string]string) (*domain.Order, error) {
	return uc.ProcessOrderOperation(ctx, &OrderOperation{
		OrderID:   orderID,
		Operation: "confirm_payment",
		Actor:     actor,
		NewStatus: domain.StatusPaid,
		Metadata:  metadata,
	})
}
