package models

import "time"

type StockModel struct {
	ProductID string `gorm:"primaryKey"`
	VariantID string `gorm:"primaryKey"`
	Available int32
	UpdatedAt time.Time
}

// StockReleaseModel guards release idempotence: one row per order, inserted
// with ON CONFLICT DO NOTHING inside the release transaction.
type StockReleaseModel struct {
	OrderID   string `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time
}
