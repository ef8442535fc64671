package repository

import (
	"context"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/mappers"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	DB *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{DB: db}
}

func (r *DefaultAuditRepository) Record(ctx context.Context, record *domain.AuditRecord) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMAudit(record)).Error; err != nil {
		return domain.NewTransientInfraError("append audit record", err)
	}
	return nil
}

func (r *DefaultAuditRepository) ListByOrder(ctx context.Context, orderID string) ([]*domain.AuditRecord, error) {
	var auditModels []models.AuditModel
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&auditModels).Error
	if err != nil {
		return nil, domain.NewTransientInfraError("list audit records", err)
	}

	records := make([]*domain.AuditRecord, len(auditModels))
	for i := range auditModels {
		records[i] = mappers.ToDomainAudit(&auditModels[i])
	}
	return records, nil
}
