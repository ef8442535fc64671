package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	orderdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/order"
)

// CreateOrder validates the request, persists the order with its stock
// reservation in one atomic step and announces the new order. The order
// starts in PENDING_ADMIN with an expiry deadline attached.
func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateInput(input); err != nil {
		uc.Metrics.RecordOrderError("create_order", "validation")
		return nil, err
	}

	now := uc.now()
	order := &domain.Order{
		ID:              uuid.New().String(),
		StoreID:         input.StoreID,
		CustomerID:      input.CustomerID,
		CustomerChannel: input.CustomerChannel,
		Status:          domain.StatusPendingAdmin,
		Currency:        strings.ToUpper(input.Currency),
		Items:           make([]domain.OrderItem, 0, len(input.Items)),
		ExpiresAt:       now.Add(uc.PendingTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range input.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		order.TotalAmount += float64(it.Quantity) * it.UnitPrice
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		uc.Metrics.RecordOrderError("create_order", errorKind(err))
		return nil, err
	}

	if err := uc.AuditRepo.Record(ctx, &domain.AuditRecord{
		OrderID:   order.ID,
		Action:    domain.ActionOrderCreated,
		Actor:     order.CustomerID,
		ToStatus:  domain.StatusPendingAdmin,
		CreatedAt: now,
	}); err != nil {
		slog.Error("failed to record order creation",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
	}

	uc.Metrics.RecordOrderCreated(order)
	uc.publishOrderEvent(order, "")

	if uc.Dispatcher != nil && order.CustomerChannel != "" {
		uc.Dispatcher.Notify(ctx, order.CustomerChannel, domain.TemplateOrderCreated, domain.OrderContext{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
		})
	}

	return order, nil
}

func validateCreateInput(input *orderdto.CreateOrderInput) error {
	if input.StoreID == "" {
		return &domain.ValidationError{Field: "store_id", Reason: "must not be empty"}
	}
	if input.CustomerID == "" {
		return &domain.ValidationError{Field: "customer_id", Reason: "must not be empty"}
	}
	if input.Currency == "" {
		return &domain.ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	if len(input.Items) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}
	for _, it := range input.Items {
		if it.ProductID == "" {
			return &domain.ValidationError{Field: "items.product_id", Reason: "must not be empty"}
		}
		if it.Quantity <= 0 {
			return &domain.ValidationError{Field: "items.quantity", Reason: "must be positive"}
		}
		if it.UnitPrice < 0 {
			return &domain.ValidationError{Field: "items.unit_price", Reason: "must not be negative"}
		}
	}
	return nil
}
