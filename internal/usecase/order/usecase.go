package usecase

import (
	"context"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/metrics"
	orderdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/order"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error)

	ConfirmPayment(ctx context.Context, orderID, actor string, metadata map[string]string) (*domain.Order, error)
	RejectOrder(ctx context.Context, orderID, actor, reason string) (*domain.Order, error)
	ShipOrder(ctx context.Context, orderID, actor string, tracking *domain.TrackingInfo) (*domain.Order, error)
	DeliverOrder(ctx context.Context, orderID, actor, notes string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, actor, reason string) (*domain.Order, error)
	CancelExpiredOrders(ctx context.Context) error

	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrderStatusHistory(ctx context.Context, orderID string) ([]*domain.AuditRecord, error)
}

// OrderEventPublisher pushes committed lifecycle events to the event bus.
type OrderEventPublisher interface {
	PublishOrder(event publisher.OrderEvent) error
}

// Notifier delivers one customer-facing message with retries spent inside.
type Notifier interface {
	Notify(ctx context.Context, channelID string, template domain.NotificationTemplate, octx domain.OrderContext) domain.DeliveryResult
}

type DefaultOrderUsecase struct {
	OrderRepo  domain.OrderRepository
	AuditRepo  domain.AuditRepository
	Locker     domain.OrderLocker
	Dispatcher Notifier
	Publisher  OrderEventPublisher
	Metrics    *metrics.OrderMetrics
	PendingTTL time.Duration

	now func() time.Time
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	auditRepo domain.AuditRepository,
	locker domain.OrderLocker,
	dispatcher Notifier,
	eventPublisher OrderEventPublisher,
	orderMetrics *metrics.OrderMetrics,
	pendingTTL time.Duration) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		OrderRepo:  orderRepo,
		AuditRepo:  auditRepo,
		Locker:     locker,
		Dispatcher: dispatcher,
		Publisher:  eventPublisher,
		Metrics:    orderMetrics,
		PendingTTL: pendingTTL,
		now:        time.Now,
	}
}
