package mappers

import (
	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, it := range model.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	order := &domain.Order{
		ID:              model.ID,
		OrderNumber:     model.OrderNumber,
		StoreID:         model.StoreID,
		CustomerID:      model.CustomerID,
		CustomerChannel: model.CustomerChannel,
		Status:          model.Status,
		TotalAmount:     model.TotalAmount,
		Currency:        model.Currency,
		Items:           items,
		ActiveProofID:   model.ActiveProofID,
		RejectionReason: model.RejectionReason,
		ExpiresAt:       model.ExpiresAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		PaidAt:          model.PaidAt,
		ShippedAt:       model.ShippedAt,
		DeliveredAt:     model.DeliveredAt,
		CancelledAt:     model.CancelledAt,
		RejectedAt:      model.RejectedAt,
	}
	if model.TrackingNumber != "" || model.TrackingCarrier != "" {
		order.Tracking = &domain.TrackingInfo{
			Carrier:        model.TrackingCarrier,
			TrackingNumber: model.TrackingNumber,
		}
	}
	return order
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	items := make([]models.OrderItemModel, len(order.Items))
	for i, it := range order.Items {
		items[i] = models.OrderItemModel{
			OrderID:   order.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	model := &models.OrderModel{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		StoreID:         order.StoreID,
		CustomerID:      order.CustomerID,
		CustomerChannel: order.CustomerChannel,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		ActiveProofID:   order.ActiveProofID,
		RejectionReason: order.RejectionReason,
		ExpiresAt:       order.ExpiresAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		PaidAt:          order.PaidAt,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
		CancelledAt:     order.CancelledAt,
		RejectedAt:      order.RejectedAt,
		Items:           items,
	}
	if order.Tracking != nil {
		model.TrackingCarrier = order.Tracking.Carrier
		model.TrackingNumber = order.Tracking.TrackingNumber
	}
	return model
}
