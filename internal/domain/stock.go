package domain

import "context"

type StockItem struct {
	ProductID string
	VariantID string
	Quantity  int32
}

// StockLedger tracks per-item available inventory.
//
// Reserve decrements available stock for every item as a single
// all-or-nothing operation: if any item's available quantity is
// insufficient, none of the items are decremented and an
// InsufficientStockError is returned.
//
// Release credits the quantities back and is idempotent per orderID: a
// second call for an already-released order is a no-op, not an error, so
// orchestrator retries can never double-credit.
type StockLedger interface {
	Reserve(ctx context.Context, items []StockItem) error
	Release(ctx context.Context, orderID string, items []StockItem) error
	Available(ctx context.Context, productID, variantID string) (int32, error)
}
