package models

import (
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type OrderModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	OrderNumber     string `gorm:"uniqueIndex"`
	StoreID         string `gorm:"index"`
	CustomerID      string `gorm:"index"`
	CustomerChannel string
	Status          domain.OrderStatus `gorm:"index:idx_status_expires"`
	TotalAmount     float64
	Currency        string
	ActiveProofID   string
	RejectionReason string
	TrackingCarrier string
	TrackingNumber  string
	ExpiresAt       time.Time `gorm:"index:idx_status_expires"`
	CreatedAt       time.Time `gorm:"index:idx_created_at"`
	UpdatedAt       time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RejectedAt      *time.Time
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"type:uuid;index"`
	ProductID string
	VariantID string
	Quantity  int32
	UnitPrice float64
}

// OrderNumberSeqModel backs the date-prefixed order number sequence, one
// counter row per day.
type OrderNumberSeqModel struct {
	Day     string `gorm:"primaryKey"`
	Counter int
}

func (OrderNumberSeqModel) TableName() string {
	return "order_number_seqs"
}
