package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/inmemory"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/locks"
	orderdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/order"
	usecase "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
)

type notifyCall struct {
	ChannelID string
	Template  domain.NotificationTemplate
	Order     domain.OrderContext
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, channelID string, template domain.NotificationTemplate, octx domain.OrderContext) domain.DeliveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{ChannelID: channelID, Template: template, Order: octx})
	return domain.DeliveryResult{ChannelID: channelID, Delivered: true, Attempts: 1}
}

func (f *fakeNotifier) sent() []notifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifyCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type orderFixture struct {
	uc       *usecase.DefaultOrderUsecase
	stock    *inmemory.StockStore
	audit    *inmemory.AuditStore
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *orderFixture {
	t.Helper()

	stock := inmemory.NewStockStore()
	stock.SetAvailable("p1", "", 10)
	stock.SetAvailable("p2", "red", 5)
	audit := inmemory.NewAuditStore()
	store := inmemory.NewOrderStore(stock, audit)
	notifier := &fakeNotifier{}

	uc := usecase.NewDefaultOrderUsecase(
		store,
		audit,
		locks.NewKeyedMutex(),
		notifier,
		nil,
		nil,
		24*time.Hour,
	)
	return &orderFixture{uc: uc, stock: stock, audit: audit, notifier: notifier}
}

func validInput() *orderdto.CreateOrderInput {
	return &orderdto.CreateOrderInput{
		StoreID:         "store-1",
		CustomerID:      "cust-1",
		CustomerChannel: "chan-1",
		Currency:        "usd",
		Items: []orderdto.CreateOrderItemInput{
			{ProductID: "p1", Quantity: 2, UnitPrice: 50},
			{ProductID: "p2", VariantID: "red", Quantity: 1, UnitPrice: 50},
		},
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	f := newFixture(t)

	order, err := f.uc.CreateOrder(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAdmin, order.Status)
	assert.Equal(t, "USD", order.Currency)
	assert.InDelta(t, 150.0, order.TotalAmount, 0.001)
	assert.NotEmpty(t, order.OrderNumber)
	assert.False(t, order.ExpiresAt.IsZero())

	available, _ := f.stock.Available(context.Background(), "p1", "")
	assert.Equal(t, int32(8), available)

	records, err := f.audit.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ActionOrderCreated, records[0].Action)

	calls := f.notifier.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "chan-1", calls[0].ChannelID)
	assert.Equal(t, domain.TemplateOrderCreated, calls[0].Template)
}

func TestCreateOrder_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*orderdto.CreateOrderInput)
	}{
		{"missing store", func(in *orderdto.CreateOrderInput) { in.StoreID = "" }},
		{"missing customer", func(in *orderdto.CreateOrderInput) { in.CustomerID = "" }},
		{"missing currency", func(in *orderdto.CreateOrderInput) { in.Currency = "" }},
		{"no items", func(in *orderdto.CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *orderdto.CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *orderdto.CreateOrderInput) { in.Items[0].UnitPrice = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(input)

			_, err := f.uc.CreateOrder(context.Background(), input)

			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation), "expected validation error, got %v", err)
		})
	}
}

func TestCreateOrder_InsufficientStock_NothingPersisted(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.Items[0].Quantity = 100

	_, err := f.uc.CreateOrder(context.Background(), input)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))

	// The other item must not be reserved either.
	available, _ := f.stock.Available(context.Background(), "p2", "red")
	assert.Equal(t, int32(5), available)
	assert.Empty(t, f.notifier.sent())
}

func TestConfirmPayment_MovesOrderToPaid(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := f.uc.ConfirmPayment(context.Background(), order.ID, "admin-1", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	calls := f.notifier.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.TemplatePaymentConfirmed, calls[1].Template)
}

func TestRejectOrder_RequiresReasonAndRestoresStock(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	_, err = f.uc.RejectOrder(context.Background(), order.ID, "admin-1", "")
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))

	updated, err := f.uc.RejectOrder(context.Background(), order.ID, "admin-1", "amount mismatch")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)
	assert.Equal(t, "amount mismatch", updated.RejectionReason)

	available, _ := f.stock.Available(context.Background(), "p1", "")
	assert.Equal(t, int32(10), available)

	calls := f.notifier.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.TemplateOrderRejected, calls[1].Template)
	assert.Equal(t, "amount mismatch", calls[1].Order.Reason)
}

func TestOrderLifecycle_PendingToDelivered(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	_, err = f.uc.ConfirmPayment(context.Background(), order.ID, "admin-1", nil)
	require.NoError(t, err)

	shipped, err := f.uc.ShipOrder(context.Background(), order.ID, "admin-1", &domain.TrackingInfo{
		Carrier:        "dhl",
		TrackingNumber: "TRK-1",
	})
	require.NoError(t, err)
	require.NotNil(t, shipped.Tracking)
	assert.Equal(t, "TRK-1", shipped.Tracking.TrackingNumber)

	delivered, err := f.uc.DeliverOrder(context.Background(), order.ID, "admin-1", "left at door")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)

	// Stock stays consumed for a completed order.
	available, _ := f.stock.Available(context.Background(), "p1", "")
	assert.Equal(t, int32(8), available)

	history, err := f.uc.GetOrderStatusHistory(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestDeliverOrder_FromPending_IsInvalid(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	before := len(f.notifier.sent())

	_, err = f.uc.DeliverOrder(context.Background(), order.ID, "admin-1", "")

	var invalid *domain.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, domain.StatusPendingAdmin, invalid.From)
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.StatusPaid, domain.StatusRejected, domain.StatusCancelled},
		invalid.Allowed)
	assert.Len(t, f.notifier.sent(), before)
}

func TestConcurrentConfirmAndReject_ExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	var confirmErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, confirmErr = f.uc.ConfirmPayment(context.Background(), order.ID, "admin-1", nil)
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = f.uc.RejectOrder(context.Background(), order.ID, "admin-2", "suspicious proof")
	}()
	wg.Wait()

	winners := 0
	for _, err := range []error{confirmErr, rejectErr} {
		if err == nil {
			winners++
			continue
		}
		var invalid *domain.InvalidTransitionError
		assert.True(t, errors.As(err, &invalid), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, winners)

	final, err := f.uc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	if confirmErr == nil {
		assert.Equal(t, domain.StatusPaid, final.Status)
	} else {
		assert.Equal(t, domain.StatusRejected, final.Status)
	}
}

func TestCancelOrder_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CancelOrder(context.Background(), "missing", "admin-1", "typo")

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCancelExpiredOrders_SweepsOnlyLapsedPending(t *testing.T) {
	stock := inmemory.NewStockStore()
	stock.SetAvailable("p1", "", 100)
	audit := inmemory.NewAuditStore()
	store := inmemory.NewOrderStore(stock, audit)
	notifier := &fakeNotifier{}

	// Zero TTL makes every new order instantly expired.
	uc := usecase.NewDefaultOrderUsecase(store, audit, locks.NewKeyedMutex(), notifier, nil, nil, 0)

	expired, err := uc.CreateOrder(context.Background(), validSingleItemInput())
	require.NoError(t, err)

	paid, err := uc.CreateOrder(context.Background(), validSingleItemInput())
	require.NoError(t, err)
	_, err = uc.ConfirmPayment(context.Background(), paid.ID, "admin-1", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, uc.CancelExpiredOrders(context.Background()))

	got, err := uc.GetOrderByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	got, err = uc.GetOrderByID(context.Background(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)
}

func validSingleItemInput() *orderdto.CreateOrderInput {
	return &orderdto.CreateOrderInput{
		StoreID:         "store-1",
		CustomerID:      "cust-1",
		CustomerChannel: "chan-1",
		Currency:        "USD",
		Items: []orderdto.CreateOrderItemInput{
			{ProductID: "p1", Quantity: 1, UnitPrice: 20},
		},
	}
}
