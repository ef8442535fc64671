package inmemory

import (
	"context"
	"sync"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type stockKey struct {
	productID string
	variantID string
}

// StockStore is the in-process stock ledger: a locked map of per-item
// counters plus a released-orders set guarding release idempotence.
type StockStore struct {
	mu        sync.Mutex
	available map[stockKey]int32
	released  map[string]bool
}

func NewStockStore() *StockStore {
	return &StockStore{
		available: make(map[stockKey]int32),
		released:  make(map[string]bool),
	}
}

func (s *StockStore) SetAvailable(productID, variantID string, qty int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available[stockKey{productID, variantID}] = qty
}

func (s *StockStore) Available(ctx context.Context, productID, variantID string) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available[stockKey{productID, variantID}], nil
}

func (s *StockStore) Reserve(ctx context.Context, items []domain.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserveLocked(items)
}

// reserveLocked checks every item before decrementing any, so a shortfall
// on the last item leaves the whole ledger untouched. Callers hold s.mu.
func (s *StockStore) reserveLocked(items []domain.StockItem) error {
	for _, item := range items {
		key := stockKey{item.ProductID, item.VariantID}
		if s.available[key] < item.Quantity {
			return &domain.InsufficientStockError{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Requested: item.Quantity,
				Available: s.available[key],
			}
		}
	}
	for _, item := range items {
		s.available[stockKey{item.ProductID, item.VariantID}] -= item.Quantity
	}
	return nil
}

func (s *StockStore) Release(ctx context.Context, orderID string, items []domain.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(orderID, items)
	return nil
}

// releaseLocked credits quantities back exactly once per order. Callers
// hold s.mu.
func (s *StockStore) releaseLocked(orderID string, items []domain.StockItem) {
	if s.released[orderID] {
		return
	}
	s.released[orderID] = true
	for _, item := range items {
		s.available[stockKey{item.ProductID, item.VariantID}] += item.Quantity
	}
}
