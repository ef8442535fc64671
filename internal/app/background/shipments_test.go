package background_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarkit/bazaar-order-service/internal/app/background"
	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/inmemory"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/locks"
	orderdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/order"
	orderuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
)

type channelSubscriber struct {
	msgs chan domain.Message
}

func (s *channelSubscriber) Subscribe(_, _ string) (<-chan domain.Message, error) {
	return s.msgs, nil
}

func (s *channelSubscriber) emit(t *testing.T, event publisher.ShipmentEvent) {
	t.Helper()
	v, err := json.Marshal(event)
	require.NoError(t, err)
	s.msgs <- domain.Message{Key: []byte(event.OrderID), Value: v}
}

func newConsumerFixture(t *testing.T) (orderuc.OrderUsecase, *channelSubscriber, *background.ShipmentConsumer) {
	t.Helper()

	stock := inmemory.NewStockStore()
	stock.SetAvailable("p1", "", 10)
	audit := inmemory.NewAuditStore()
	store := inmemory.NewOrderStore(stock, audit)

	orders := orderuc.NewDefaultOrderUsecase(
		store,
		audit,
		locks.NewKeyedMutex(),
		nil,
		nil,
		nil,
		24*time.Hour,
	)

	sub := &channelSubscriber{msgs: make(chan domain.Message)}
	consumer := background.NewShipmentConsumer(orders, sub)
	require.NoError(t, consumer.Start())
	t.Cleanup(consumer.Stop)

	return orders, sub, consumer
}

func paidOrder(t *testing.T, orders orderuc.OrderUsecase) *domain.Order {
	t.Helper()

	ctx := context.Background()
	order, err := orders.CreateOrder(ctx, &orderdto.CreateOrderInput{
		StoreID:    "store-1",
		CustomerID: "cust-1",
		Currency:   "USD",
		Items: []orderdto.CreateOrderItemInput{
			{ProductID: "p1", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	_, err = orders.ConfirmPayment(ctx, order.ID, "admin-1", nil)
	require.NoError(t, err)
	return order
}

func waitForStatus(t *testing.T, orders orderuc.OrderUsecase, orderID string, want domain.OrderStatus) *domain.Order {
	t.Helper()

	var got *domain.Order
	require.Eventually(t, func() bool {
		order, err := orders.GetOrderByID(context.Background(), orderID)
		if err != nil {
			return false
		}
		got = order
		return order.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return got
}

func TestShipmentConsumer_DispatchedEvent_ShipsOrderWithTracking(t *testing.T) {
	orders, sub, _ := newConsumerFixture(t)
	order := paidOrder(t, orders)

	sub.emit(t, publisher.ShipmentEvent{
		OrderID:        order.ID,
		Event:          "dispatched",
		Carrier:        "DHL",
		TrackingNumber: "TRK-42",
	})

	shipped := waitForStatus(t, orders, order.ID, domain.StatusShipped)
	require.NotNil(t, shipped.Tracking)
	assert.Equal(t, "DHL", shipped.Tracking.Carrier)
	assert.Equal(t, "TRK-42", shipped.Tracking.TrackingNumber)
}

func TestShipmentConsumer_DeliveredEvent_ClosesShippedOrder(t *testing.T) {
	orders, sub, _ := newConsumerFixture(t)
	order := paidOrder(t, orders)

	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "dispatched", TrackingNumber: "TRK-1"})
	waitForStatus(t, orders, order.ID, domain.StatusShipped)

	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "delivered", Notes: "left at door"})
	delivered := waitForStatus(t, orders, order.ID, domain.StatusDelivered)
	assert.NotNil(t, delivered.DeliveredAt)
}

func TestShipmentConsumer_OutOfOrderEvent_LeavesOrderUntouched(t *testing.T) {
	orders, sub, _ := newConsumerFixture(t)
	order := paidOrder(t, orders)

	// Delivered before dispatched is not a valid transition from PAID.
	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "delivered"})
	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "dispatched"})

	shipped := waitForStatus(t, orders, order.ID, domain.StatusShipped)
	assert.Nil(t, shipped.DeliveredAt)
}

func TestShipmentConsumer_UndecodableAndUnknownEvents_AreDropped(t *testing.T) {
	orders, sub, _ := newConsumerFixture(t)
	order := paidOrder(t, orders)

	sub.msgs <- domain.Message{Value: []byte("not json")}
	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "teleported"})
	sub.emit(t, publisher.ShipmentEvent{OrderID: order.ID, Event: "dispatched"})

	waitForStatus(t, orders, order.ID, domain.StatusShipped)
}

func TestShipmentConsumer_Stop_DrainsCleanly(t *testing.T) {
	_, _, consumer := newConsumerFixture(t)

	done := make(chan struct{})
	go func() {
		consumer.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
