package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
)

type ProofStore struct {
	mu       sync.Mutex
	proofs   map[string]*domain.ProofArtifact
	payloads map[string][]byte
	active   map[string]string
	byOrder  map[string][]string
}

func NewProofStore() *ProofStore {
	return &ProofStore{
		proofs:   make(map[string]*domain.ProofArtifact),
		payloads: make(map[string][]byte),
		active:   make(map[string]string),
		byOrder:  make(map[string][]string),
	}
}

func (s *ProofStore) CreateProof(ctx context.Context, proof *domain.ProofArtifact, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prevID, ok := s.active[proof.OrderID]; ok {
		s.proofs[prevID].Superseded = true
	}

	clone := *proof
	s.proofs[proof.ID] = &clone
	s.payloads[proof.ID] = append([]byte(nil), payload...)
	s.active[proof.OrderID] = proof.ID
	s.byOrder[proof.OrderID] = append(s.byOrder[proof.OrderID], proof.ID)
	return nil
}

func (s *ProofStore) GetProofByID(ctx context.Context, proofID string) (*domain.ProofArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proof, ok := s.proofs[proofID]
	if !ok {
		return nil, domain.ErrProofNotFound
	}
	clone := *proof
	return &clone, nil
}

func (s *ProofStore) GetPayload(ctx context.Context, proofID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.payloads[proofID]
	if !ok {
		return nil, domain.ErrProofNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (s *ProofStore) GetActiveProof(ctx context.Context, orderID string) (*domain.ProofArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proofID, ok := s.active[orderID]
	if !ok {
		return nil, domain.ErrProofNotFound
	}
	clone := *s.proofs[proofID]
	return &clone, nil
}

func (s *ProofStore) RecordOutcome(ctx context.Context, proofID string, outcome domain.ProofOutcome, score float64, failureReason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proof, ok := s.proofs[proofID]
	if !ok {
		return domain.ErrProofNotFound
	}
	if proof.Outcome != domain.ProofPending {
		return fmt.Errorf("proof %s outcome already recorded as %s", proofID, proof.Outcome)
	}
	proof.Outcome = outcome
	proof.ConfidenceScore = score
	proof.FailureReason = failureReason
	return nil
}

func (s *ProofStore) ListByOrder(ctx context.Context, orderID string) ([]*domain.ProofArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byOrder[orderID]
	out := make([]*domain.ProofArtifact, 0, len(ids))
	for _, id := range ids {
		clone := *s.proofs[id]
		out = append(out, &clone)
	}
	return out, nil
}
