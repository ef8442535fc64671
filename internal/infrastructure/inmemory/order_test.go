package inmemory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/inmemory"
)

func newOrderFixture(t *testing.T) (*inmemory.OrderStore, *inmemory.StockStore, *inmemory.AuditStore, *domain.Order) {
	t.Helper()

	stock := inmemory.NewStockStore()
	stock.SetAvailable("p1", "", 10)
	audit := inmemory.NewAuditStore()
	store := inmemory.NewOrderStore(stock, audit)

	order := &domain.Order{
		ID:         uuid.New().String(),
		StoreID:    "store-1",
		CustomerID: "cust-1",
		Status:     domain.StatusPendingAdmin,
		Currency:   "USD",
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: 75},
		},
		TotalAmount: 150,
		CreatedAt:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateOrder(context.Background(), order))
	return store, stock, audit, order
}

func TestOrderStore_CreateOrder_AssignsDatePrefixedNumber(t *testing.T) {
	_, stock, _, order := newOrderFixture(t)

	assert.Equal(t, "ORD-20250314-0001", order.OrderNumber)

	available, _ := stock.Available(context.Background(), "p1", "")
	assert.Equal(t, int32(8), available)
}

func TestOrderStore_CreateOrder_InsufficientStock_PersistsNothing(t *testing.T) {
	stock := inmemory.NewStockStore()
	stock.SetAvailable("p1", "", 1)
	store := inmemory.NewOrderStore(stock, inmemory.NewAuditStore())

	order := &domain.Order{
		ID:     uuid.New().String(),
		Status: domain.StatusPendingAdmin,
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 5, UnitPrice: 10},
		},
		CreatedAt: time.Now(),
	}
	err := store.CreateOrder(context.Background(), order)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))

	_, err = store.GetOrderByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStore_CommitTransition_UpdatesStatusAndAudit(t *testing.T) {
	store, _, audit, order := newOrderFixture(t)
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	updated, err := store.CommitTransition(context.Background(), &domain.TransitionCommit{
		OrderID: order.ID,
		From:    domain.StatusPendingAdmin,
		To:      domain.StatusPaid,
		Actor:   "admin-1",
		At:      at,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, at, *updated.PaidAt)

	records, err := audit.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusPendingAdmin, records[0].FromStatus)
	assert.Equal(t, domain.StatusPaid, records[0].ToStatus)
	assert.Equal(t, "admin-1", records[0].Actor)
}

func TestOrderStore_CommitTransition_RestoresStockOnReject(t *testing.T) {
	store, stock, _, order := newOrderFixture(t)

	_, err := store.CommitTransition(context.Background(), &domain.TransitionCommit{
		OrderID:      order.ID,
		From:         domain.StatusPendingAdmin,
		To:           domain.StatusRejected,
		Actor:        "admin-1",
		Reason:       "proof mismatch",
		RestoreStock: true,
		At:           time.Now(),
	})

	require.NoError(t, err)
	available, _ := stock.Available(context.Background(), "p1", "")
	assert.Equal(t, int32(10), available)
}

func TestOrderStore_CommitTransition_StaleFromStatus_IsRejected(t *testing.T) {
	store, _, _, order := newOrderFixture(t)

	_, err := store.CommitTransition(context.Background(), &domain.TransitionCommit{
		OrderID: order.ID,
		From:    domain.StatusPendingAdmin,
		To:      domain.StatusPaid,
		Actor:   "admin-1",
		At:      time.Now(),
	})
	require.NoError(t, err)

	// Second commit still assumes PENDING_ADMIN and must lose.
	_, err = store.CommitTransition(context.Background(), &domain.TransitionCommit{
		OrderID: order.ID,
		From:    domain.StatusPendingAdmin,
		To:      domain.StatusRejected,
		Actor:   "admin-2",
		At:      time.Now(),
	})

	var invalid *domain.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, domain.StatusPaid, invalid.From)
}

func TestOrderStore_CommitTransition_ConcurrentCommits_ExactlyOneWins(t *testing.T) {
	store, _, _, order := newOrderFixture(t)

	targets := []domain.OrderStatus{domain.StatusPaid, domain.StatusRejected}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.OrderStatus) {
			defer wg.Done()
			_, errs[i] = store.CommitTransition(context.Background(), &domain.TransitionCommit{
				OrderID:      order.ID,
				From:         domain.StatusPendingAdmin,
				To:           target,
				Actor:        "racer",
				RestoreStock: domain.ShouldRestoreStock(target),
				At:           time.Now(),
			})
		}(i, target)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			var invalid *domain.InvalidTransitionError
			assert.True(t, errors.As(err, &invalid))
		}
	}
	assert.Equal(t, 1, winners)
}
