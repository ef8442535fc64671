package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/mappers"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProofRepository struct {
	DB *gorm.DB
}

func NewDefaultProofRepository(db *gorm.DB) *DefaultProofRepository {
	return &DefaultProofRepository{DB: db}
}

func (r *DefaultProofRepository) CreateProof(ctx context.Context, proof *domain.ProofArtifact, payload []byte) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProofModel{}).
			Where("order_id = ? AND superseded = ?", proof.OrderID, false).
			Update("superseded", true).Error; err != nil {
			return fmt.Errorf("supersede previous proof: %w", err)
		}
		return tx.Create(mappers.ToGORMProof(proof, payload)).Error
	})
	if err != nil {
		return domain.NewTransientInfraError("store proof", err)
	}
	return nil
}

func (r *DefaultProofRepository) GetProofByID(ctx context.Context, proofID string) (*domain.ProofArtifact, error) {
	var model models.ProofModel
	err := r.DB.WithContext(ctx).
		Omit("payload").
		First(&model, "id = ?", proofID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProofNotFound
		}
		return nil, domain.NewTransientInfraError("load proof", err)
	}
	return mappers.ToDomainProof(&model), nil
}

func (r *DefaultProofRepository) GetPayload(ctx context.Context, proofID string) ([]byte, error) {
	var model models.ProofModel
	err := r.DB.WithContext(ctx).
		Select("id", "payload").
		First(&model, "id = ?", proofID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProofNotFound
		}
		return nil, domain.NewTransientInfraError("load proof payload", err)
	}
	return model.Payload, nil
}

func (r *DefaultProofRepository) GetActiveProof(ctx context.Context, orderID string) (*domain.ProofArtifact, error) {
	var model models.ProofModel
	err := r.DB.WithContext(ctx).
		Omit("payload").
		Where("order_id = ? AND superseded = ?", orderID, false).
		Order("uploaded_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProofNotFound
		}
		return nil, domain.NewTransientInfraError("load active proof", err)
	}
	return mappers.ToDomainProof(&model), nil
}

// RecordOutcome is write-once: the conditional update only matches proofs
// still pending, so a recorded artifact stays immutable.
func (r *DefaultProofRepository) RecordOutcome(ctx context.Context, proofID string, outcome domain.ProofOutcome, score float64, failureReason string) error {
	res := r.DB.WithContext(ctx).Model(&models.ProofModel{}).
		Where("id = ? AND outcome = ?", proofID, domain.ProofPending).
		Updates(map[string]any{
			"outcome":          outcome,
			"confidence_score": score,
			"failure_reason":   failureReason,
		})
	if res.Error != nil {
		return domain.NewTransientInfraError("record proof outcome", res.Error)
	}
	if res.RowsAffected == 0 {
		var model models.ProofModel
		if err := r.DB.WithContext(ctx).Select("id", "outcome").
			First(&model, "id = ?", proofID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProofNotFound
			}
			return domain.NewTransientInfraError("record proof outcome", err)
		}
		return fmt.Errorf("proof %s outcome already recorded as %s", proofID, model.Outcome)
	}
	return nil
}

func (r *DefaultProofRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.ProofArtifact, error) {
	var proofModels []models.ProofModel
	err := r.DB.WithContext(ctx).
		Omit("payload").
		Where("order_id = ?", orderID).
		Order("uploaded_at ASC").
		Find(&proofModels).Error
	if err != nil {
		return nil, domain.NewTransientInfraError("list proofs", err)
	}

	proofs := make([]*domain.ProofArtifact, len(proofModels))
	for i := range proofModels {
		proofs[i] = mappers.ToDomainProof(&proofModels[i])
	}
	return proofs, nil
}
