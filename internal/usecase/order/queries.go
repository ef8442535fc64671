package usecase

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

// GetOrderStatusHistory returns the audit trail for the order in
// chronological order.
func (uc *DefaultOrderUsecase) GetOrderStatusHistory(ctx context.Context, orderID string) ([]*domain.AuditRecord, error) {
	if orderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if _, err := uc.OrderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.AuditRepo.ListByOrder(ctx, orderID)
}
