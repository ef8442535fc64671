package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
)

// OrderOperation is one requested status change with its audit attribution.
type OrderOperation struct {
	OrderID   string
	Operation string
	Actor     string
	NewStatus domain.OrderStatus
	Reason    string
	Tracking  *domain.TrackingInfo
	Metadata  map[string]string
}

// ProcessOrderOperation drives every status change through the same path:
// take the per-order lock, validate the transition against the current
// status, commit atomically, then emit the event and the customer
// notification. Post-commit delivery failures never roll the transition back.
func (uc *DefaultOrderUsecase) ProcessOrderOperation(ctx context.Context, op *OrderOperation) (*domain.Order, error) {
	if op.OrderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if op.Actor == "" {
		return nil, &domain.ValidationError{Field: "actor", Reason: "must not be empty"}
	}

	unlock, err := uc.Locker.Lock(ctx, op.OrderID)
	if err != nil {
		uc.Metrics.RecordOrderError(op.Operation, "lock")
		return nil, domain.NewTransientInfraError("acquire order lock", err)
	}
	defer unlock()

	order, err := uc.OrderRepo.GetOrderByID(ctx, op.OrderID)
	if err != nil {
		uc.Metrics.RecordOrderError(op.Operation, errorKind(err))
		return nil, err
	}

	if !order.Status.CanTransitionTo(op.NewStatus) {
		uc.Metrics.RecordOrderError(op.Operation, "invalid_transition")
		return nil, domain.NewInvalidTransitionError(order.ID, order.Status, op.NewStatus)
	}

	commit := &domain.TransitionCommit{
		OrderID:      order.ID,
		From:         order.Status,
		To:           op.NewStatus,
		Actor:        op.Actor,
		Reason:       op.Reason,
		Tracking:     op.Tracking,
		Metadata:     op.Metadata,
		RestoreStock: domain.ShouldRestoreStock(op.NewStatus),
		At:           uc.now(),
	}

	updated, err := uc.OrderRepo.CommitTransition(ctx, commit)
	if err != nil {
		uc.Metrics.RecordOrderError(op.Operation, errorKind(err))
		return nil, err
	}

	uc.Metrics.RecordTransition(commit.From, commit.To, op.Actor)
	uc.publishOrderEvent(updated, op.Reason)
	uc.notifyCustomer(ctx, updated, op.Reason)

	return updated, nil
}

func (uc *DefaultOrderUsecase) publishOrderEvent(order *domain.Order, reason string) {
	if uc.Publisher == nil {
		return
	}
	event := publisher.OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		StoreID:     order.StoreID,
		Status:      string(order.Status),
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		Reason:      reason,
	}
	go func() {
		if err := uc.Publisher.PublishOrder(event); err != nil {
			slog.Error("failed to publish order event",
				slog.String("order_id", event.OrderID),
				slog.String("status", event.Status),
				slog.Any("error", err))
		}
	}()
}

func (uc *DefaultOrderUsecase) notifyCustomer(ctx context.Context, order *domain.Order, reason string) {
	if uc.Dispatcher == nil || order.CustomerChannel == "" {
		return
	}
	template, ok := domain.TemplateForStatus(order.Status)
	if !ok {
		return
	}
	uc.Dispatcher.Notify(ctx, order.CustomerChannel, template, domain.OrderContext{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		Reason:      reason,
	})
}

func errorKind(err error) string {
	var (
		invalidTransition *domain.InvalidTransitionError
		insufficientStock *domain.InsufficientStockError
		validation        *domain.ValidationError
		transient         *domain.TransientInfraError
	)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return "not_found"
	case errors.As(err, &invalidTransition):
		return "invalid_transition"
	case errors.As(err, &insufficientStock):
		return "insufficient_stock"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &transient):
		return "infra"
	}
	return "internal"
}
