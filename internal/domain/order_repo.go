package domain

import (
	"context"
	"time"
)

// TransitionCommit describes one validated status change. The repository
// must apply the status update, the per-state timestamp, the optional stock
// release and the audit record as a single atomic unit: if any part fails,
// the whole commit rolls back and a TransientInfraError is returned.
//
// The repository re-checks the From status under a row lock; if a competing
// transition committed first, it returns an InvalidTransitionError built
// from the status it actually observed.
type TransitionCommit struct {
	OrderID      string
	From         OrderStatus
	To           OrderStatus
	Actor        string
	Reason       string
	Tracking     *TrackingInfo
	Metadata     map[string]string
	RestoreStock bool
	At           time.Time
}

type OrderRepository interface {
	// CreateOrder persists the order and reserves stock for its items in
	// one atomic operation. On InsufficientStockError nothing is persisted.
	// The repository assigns the date-prefixed order number.
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	CommitTransition(ctx context.Context, commit *TransitionCommit) (*Order, error)
	SetActiveProof(ctx context.Context, orderID, proofID string) error
	FindExpiredPending(ctx context.Context, now time.Time) ([]*Order, error)
}

type ProofRepository interface {
	// CreateProof stores the artifact with its payload and marks any
	// previously active artifact for the order as superseded.
	CreateProof(ctx context.Context, proof *ProofArtifact, payload []byte) error
	GetProofByID(ctx context.Context, proofID string) (*ProofArtifact, error)
	GetPayload(ctx context.Context, proofID string) ([]byte, error)
	GetActiveProof(ctx context.Context, orderID string) (*ProofArtifact, error)
	// RecordOutcome is write-once: the artifact is immutable afterwards.
	RecordOutcome(ctx context.Context, proofID string, outcome ProofOutcome, score float64, failureReason string) error
	ListByOrder(ctx context.Context, orderID string) ([]*ProofArtifact, error)
}

type AuditRepository interface {
	Record(ctx context.Context, record *AuditRecord) error
	ListByOrder(ctx context.Context, orderID string) ([]*AuditRecord, error)
}
