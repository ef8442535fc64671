package usecase

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// ShipOrder marks a paid order as shipped with optional tracking details.
func (uc *DefaultOrderUsecase) ShipOrder(ctx context.Context, orderID, actor string, tracking *domain.TrackingInfo) (*domain.Order, error) {
	return uc.ProcessOrderOperation(ctx, &OrderOperation{
		OrderID:   orderID,
		Operation: "ship_order",
		Actor:     actor,
		NewStatus: domain.StatusShipped,
		Tracking:  tracking,
	})
}
