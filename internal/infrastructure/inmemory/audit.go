package inmemory

import (
	"context"
	"sync"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type AuditStore struct {
	mu      sync.Mutex
	nextID  uint
	byOrder map[string][]*domain.AuditRecord
}

func NewAuditStore() *AuditStore {
	return &AuditStore{byOrder: make(map[string][]*domain.AuditRecord)}
}

func (s *AuditStore) Record(ctx context.Context, record *domain.AuditRecord) error {
	s.append(record)
	return nil
}

func (s *AuditStore) append(record *domain.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	clone := *record
	clone.ID = s.nextID
	s.byOrder[record.OrderID] = append(s.byOrder[record.OrderID], &clone)
}

func (s *AuditStore) ListByOrder(ctx context.Context, orderID string) ([]*domain.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.byOrder[orderID]
	out := make([]*domain.AuditRecord, len(records))
	for i, r := range records {
		clone := *r
		out[i] = &clone
	}
	return out, nil
}
