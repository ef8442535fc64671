package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/mappers"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

// CreateOrder assigns the date-prefixed order number, reserves stock for
// every item and inserts the order in one transaction. On
// InsufficientStockError the transaction rolls back and nothing persists.
func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		day := order.CreatedAt.Format("20060102")
		var seq models.OrderNumberSeqModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(models.OrderNumberSeqModel{Day: day}).
			FirstOrCreate(&seq).Error; err != nil {
			return fmt.Errorf("order number sequence: %w", err)
		}
		seq.Counter++
		if err := tx.Save(&seq).Error; err != nil {
			return fmt.Errorf("order number sequence: %w", err)
		}
		order.OrderNumber = fmt.Sprintf("ORD-%s-%04d", day, seq.Counter)

		if err := reserveItems(tx, order.StockItems()); err != nil {
			return err
		}

		return tx.Create(mappers.ToGORMOrder(order)).Error
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return insufficient
		}
		return domain.NewTransientInfraError("create order", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var model models.OrderModel
	err := r.DB.WithContext(ctx).Preload("Items").First(&model, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.NewTransientInfraError("load order", err)
	}
	return mappers.ToDomainOrder(&model), nil
}

// CommitTransition applies the status change, its timestamp, the optional
// stock release and the audit record inside one transaction, holding a FOR
// UPDATE lock on the order row. A competing transition that committed first
// is reported as an InvalidTransitionError against the observed status.
func (r *DefaultOrderRepository) CommitTransition(ctx context.Context, commit *domain.TransitionCommit) (*domain.Order, error) {
	var updated *domain.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			First(&model, "id = ?", commit.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}
		if model.Status != commit.From {
			return domain.NewInvalidTransitionError(model.ID, model.Status, commit.To)
		}

		order := mappers.ToDomainOrder(&model)
		if err := order.ApplyTransition(commit.To, commit.At); err != nil {
			return err
		}
		if commit.Reason != "" {
			order.RejectionReason = commit.Reason
		}
		if commit.Tracking != nil {
			tracking := *commit.Tracking
			order.Tracking = &tracking
		}

		updates := map[string]any{
			"status":     order.Status,
			"updated_at": order.UpdatedAt,
		}
		switch commit.To {
		case domain.StatusPaid:
			updates["paid_at"] = order.PaidAt
		case domain.StatusShipped:
			updates["shipped_at"] = order.ShippedAt
		case domain.StatusDelivered:
			updates["delivered_at"] = order.DeliveredAt
		case domain.StatusCancelled:
			updates["cancelled_at"] = order.CancelledAt
		case domain.StatusRejected:
			updates["rejected_at"] = order.RejectedAt
		}
		if commit.Reason != "" {
			updates["rejection_reason"] = commit.Reason
		}
		if commit.Tracking != nil {
			updates["tracking_carrier"] = commit.Tracking.Carrier
			updates["tracking_number"] = commit.Tracking.TrackingNumber
		}
		if err := tx.Model(&models.OrderModel{}).
			Where("id = ?", commit.OrderID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if commit.RestoreStock {
			if err := releaseItems(tx, commit.OrderID, order.StockItems()); err != nil {
				return err
			}
		}

		audit := mappers.ToGORMAudit(&domain.AuditRecord{
			OrderID:    commit.OrderID,
			Action:     fmt.Sprintf("status_%s", commit.To),
			Actor:      commit.Actor,
			FromStatus: commit.From,
			ToStatus:   commit.To,
			Metadata:   commit.Metadata,
			CreatedAt:  commit.At,
		})
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("insert audit record: %w", err)
		}

		updated = order
		return nil
	})
	if err != nil {
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) {
			return nil, invalid
		}
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
		return nil, domain.NewTransientInfraError("commit transition", err)
	}
	return updated, nil
}

func (r *DefaultOrderRepository) SetActiveProof(ctx context.Context, orderID, proofID string) error {
	res := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("active_proof_id", proofID)
	if res.Error != nil {
		return domain.NewTransientInfraError("set active proof", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *DefaultOrderRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).Preload("Items").
		Where("status = ?", domain.StatusPendingAdmin).
		Where("expires_at > ?", time.Time{}).
		Where("expires_at < ?", now).
		Find(&orderModels).Error
	if err != nil {
		return nil, domain.NewTransientInfraError("find expired orders", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}
