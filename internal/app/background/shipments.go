package background

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	orderuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
)

const shipmentGroupID = "order-service"

const (
	shipmentDispatched = "dispatched"
	shipmentDelivered  = "delivered"
)

// ShipmentConsumer applies fulfillment events from the shipping system to
// order state: a dispatched parcel ships the order, a delivered parcel
// closes it out.
type ShipmentConsumer struct {
	Orders     orderuc.OrderUsecase
	Subscriber domain.EventSubscriber

	cancel context.CancelFunc
	done   chan struct{}
}

func NewShipmentConsumer(orders orderuc.OrderUsecase, subscriber domain.EventSubscriber) *ShipmentConsumer {
	return &ShipmentConsumer{
		Orders:     orders,
		Subscriber: subscriber,
	}
}

func (sc *ShipmentConsumer) Start() error {
	msgs, err := sc.Subscriber.Subscribe(publisher.ShipmentEventsTopic, shipmentGroupID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc.cancel = cancel
	sc.done = make(chan struct{})
	go sc.run(ctx, msgs)
	return nil
}

func (sc *ShipmentConsumer) Stop() {
	if sc.cancel == nil {
		return
	}
	sc.cancel()
	<-sc.done
}

func (sc *ShipmentConsumer) run(ctx context.Context, msgs <-chan domain.Message) {
	defer close(sc.done)
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			sc.handle(ctx, m)
		}
	}
}

func (sc *ShipmentConsumer) handle(ctx context.Context, m domain.Message) {
	var event publisher.ShipmentEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		slog.Error("dropping undecodable shipment event", slog.Any("error", err))
		return
	}

	var err error
	switch event.Event {
	case shipmentDispatched:
		var tracking *domain.TrackingInfo
		if event.TrackingNumber != "" {
			tracking = &domain.TrackingInfo{
				Carrier:        event.Carrier,
				TrackingNumber: event.TrackingNumber,
			}
		}
		_, err = sc.Orders.ShipOrder(ctx, event.OrderID, domain.ActorSystem, tracking)
	case shipmentDelivered:
		_, err = sc.Orders.DeliverOrder(ctx, event.OrderID, domain.ActorSystem, event.Notes)
	default:
		slog.Warn("dropping unknown shipment event",
			slog.String("event", event.Event),
			slog.String("order_id", event.OrderID))
		return
	}

	var invalid *domain.InvalidTransitionError
	switch {
	case err == nil:
	case errors.As(err, &invalid):
		// Fulfillment retries and duplicate deliveries land here.
		slog.Info("shipment event ignored for order state",
			slog.String("order_id", event.OrderID),
			slog.String("event", event.Event),
			slog.String("status", string(invalid.From)))
	default:
		slog.Error("failed to apply shipment event",
			slog.String("order_id", event.OrderID),
			slog.String("event", event.Event),
			slog.Any("error", err))
	}
}
