package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// CancelOrder aborts the order from any non-terminal status and restores the
// reserved stock.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID, actor, reason string) (*domain.Order, error) {
	return uc.ProcessOrderOperation(ctx, &OrderOperation{
		OrderID:   orderID,
		Operation: "cancel_order",
		Actor:     actor,
		NewStatus: domain.StatusCancelled,
		Reason:    reason,
	})
}

// CancelExpiredOrders cancels every PENDING_ADMIN order whose payment window
// has lapsed. A losing race against a concurrent admin action on the same
// order is expected and skipped, any other failure is logged and the sweep
// moves on.
func (uc *DefaultOrderUsecase) CancelExpiredOrders(ctx context.Context) error {
	expired, err := uc.OrderRepo.FindExpiredPending(ctx, uc.now())
	if err != nil {
		return err
	}

	for _, order := range expired {
		_, err := uc.CancelOrder(ctx, order.ID, domain.ActorSystem, "payment window expired")
		if err == nil {
			continue
		}
		var invalidTransition *domain.InvalidTransitionError
		if errors.As(err, &invalidTransition) {
			continue
		}
		slog.Error("failed to cancel expired order",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
	}
	return nil
}
