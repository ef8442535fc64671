package models

import "time"

type AuditModel struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    string `gorm:"type:uuid;index:idx_audit_order_time"`
	Action     string
	Actor      string
	FromStatus string
	ToStatus   string
	Metadata   string    `gorm:"type:jsonb"`
	CreatedAt  time.Time `gorm:"index:idx_audit_order_time"`
}

func (AuditModel) TableName() string {
	return "audit_records"
}
