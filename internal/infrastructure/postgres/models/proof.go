package models

import (
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type ProofModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	OrderID         string `gorm:"type:uuid;index"`
	StorageRef      string `gorm:"uniqueIndex"`
	Filename        string
	MimeType        string
	Outcome         domain.ProofOutcome
	ConfidenceScore float64
	FailureReason   string
	Superseded      bool   `gorm:"index"`
	Payload         []byte `gorm:"type:bytea"`
	UploadedAt      time.Time
}
