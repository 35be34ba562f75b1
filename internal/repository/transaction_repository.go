package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	BaseRepository[models.Transaction]
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Transaction, error)
	SumByVendor(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error)
}

type transactionRepository struct {
	BaseRepository[models.Transaction]
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{BaseRepository: NewBaseRepository[models.Transaction](db), db: db}
}

func (r *transactionRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list transactions by vendor failed")
	}
	return out, nil
}

// SumByVendor aggregates across every budget referencing the vendor,
// not scoped to a single project.
func (r *transactionRepository) SumByVendor(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("vendor_id = ?", vendorID).
		Select("SUM(amount)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, appErr.Wrap(err, appErr.CodeInternal, "sum transactions by vendor failed")
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
