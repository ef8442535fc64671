package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

// OrderStore keeps orders in a locked map. Creation reserves stock and the
// transition commit pairs the status change with the stock release and the
// audit record under one lock, mirroring the transactional guarantees of
// the postgres repository.
type OrderStore struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    map[string]int
	stock  *StockStore
	audit  *AuditStore
}

func NewOrderStore(stock *StockStore, audit *AuditStore) *OrderStore {
	return &OrderStore{
		orders: make(map[string]*domain.Order),
		seq:    make(map[string]int),
		stock:  stock,
		audit:  audit,
	}
}

func (s *OrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stock.Reserve(ctx, order.StockItems()); err != nil {
		return err
	}

	day := order.CreatedAt.Format("20060102")
	s.seq[day]++
	order.OrderNumber = fmt.Sprintf("ORD-%s-%04d", day, s.seq[day])

	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *OrderStore) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *OrderStore) CommitTransition(ctx context.Context, commit *domain.TransitionCommit) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[commit.OrderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != commit.From {
		// A competing transition won; report against the status actually
		// observed.
		return nil, domain.NewInvalidTransitionError(order.ID, order.Status, commit.To)
	}

	updated := cloneOrder(order)
	if err := updated.ApplyTransition(commit.To, commit.At); err != nil {
		return nil, err
	}
	if commit.Reason != "" {
		updated.RejectionReason = commit.Reason
	}
	if commit.Tracking != nil {
		tracking := *commit.Tracking
		updated.Tracking = &tracking
	}
	if commit.RestoreStock {
		s.stock.mu.Lock()
		s.stock.releaseLocked(commit.OrderID, updated.StockItems())
		s.stock.mu.Unlock()
	}

	s.audit.append(&domain.AuditRecord{
		OrderID:    commit.OrderID,
		Action:     fmt.Sprintf("status_%s", commit.To),
		Actor:      commit.Actor,
		FromStatus: commit.From,
		ToStatus:   commit.To,
		Metadata:   commit.Metadata,
		CreatedAt:  commit.At,
	})

	s.orders[commit.OrderID] = updated
	return cloneOrder(updated), nil
}

func (s *OrderStore) SetActiveProof(ctx context.Context, orderID, proofID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.ActiveProofID = proofID
	return nil
}

func (s *OrderStore) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Order
	for _, order := range s.orders {
		if order.Status == domain.StatusPendingAdmin && !order.ExpiresAt.IsZero() && order.ExpiresAt.Before(now) {
			out = append(out, cloneOrder(order))
		}
	}
	return out, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = make([]domain.OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	if o.Tracking != nil {
		tracking := *o.Tracking
		clone.Tracking = &tracking
	}
	return &clone
}
