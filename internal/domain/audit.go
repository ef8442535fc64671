package domain

import "time"

// AuditRecord is an append-only entry keyed by (orderID, timestamp). For
// status transitions the record is committed in the same transaction as the
// status change, before any notification becomes externally observable.
type AuditRecord struct {
	ID         uint
	OrderID    string
	Action     string
	Actor      string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Metadata   map[string]string
	CreatedAt  time.Time
}

const (
	ActorSystem = "system"

	ActionOrderCreated  = "order_created"
	ActionProofUploaded = "proof_uploaded"
	ActionProofScored   = "proof_scored"
)
