package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultStockRepository struct {
	DB *gorm.DB
}

func NewDefaultStockRepository(db *gorm.DB) *DefaultStockRepository {
	return &DefaultStockRepository{DB: db}
}

func (r *DefaultStockRepository) Reserve(ctx context.Context, items []domain.StockItem) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reserveItems(tx, items)
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return insufficient
		}
		return domain.NewTransientInfraError("stock reserve", err)
	}
	return nil
}

func (r *DefaultStockRepository) Release(ctx context.Context, orderID string, items []domain.StockItem) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return releaseItems(tx, orderID, items)
	})
	if err != nil {
		return domain.NewTransientInfraError("stock release", err)
	}
	return nil
}

func (r *DefaultStockRepository) Available(ctx context.Context, productID, variantID string) (int32, error) {
	var stock models.StockModel
	err := r.DB.WithContext(ctx).
		First(&stock, "product_id = ? AND variant_id = ?", productID, variantID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return stock.Available, nil
}

// reserveItems decrements every item's counter with a conditional UPDATE
// (available >= quantity), so concurrent orders on the same product cannot
// oversell. Any shortfall aborts the surrounding transaction and nothing
// is decremented.
func reserveItems(tx *gorm.DB, items []domain.StockItem) error {
	for _, item := range items {
		res := tx.Model(&models.StockModel{}).
			Where("product_id = ? AND variant_id = ? AND available >= ?",
				item.ProductID, item.VariantID, item.Quantity).
			UpdateColumn("available", gorm.Expr("available - ?", item.Quantity))
		if res.Error != nil {
			return fmt.Errorf("decrement stock for %s: %w", item.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			var stock models.StockModel
			if err := tx.First(&stock, "product_id = ? AND variant_id = ?",
				item.ProductID, item.VariantID).Error; err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			return &domain.InsufficientStockError{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Requested: item.Quantity,
				Available: stock.Available,
			}
		}
	}
	return nil
}

// releaseItems credits quantities back exactly once per order: the release
// marker insert uses ON CONFLICT DO NOTHING, and a conflicting order means
// the credit already happened.
func releaseItems(tx *gorm.DB, orderID string, items []domain.StockItem) error {
	marker := models.StockReleaseModel{OrderID: orderID}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker)
	if res.Error != nil {
		return fmt.Errorf("insert release marker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}

	for _, item := range items {
		if err := tx.Model(&models.StockModel{}).
			Where("product_id = ? AND variant_id = ?", item.ProductID, item.VariantID).
			UpdateColumn("available", gorm.Expr("available + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("increment stock for %s: %w", item.ProductID, err)
		}
	}
	return nil
}
