package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"gorm.io/gorm"
)

type VendorRepository interface {
	BaseRepository[models.Vendor]
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]models.Vendor, error)
}

type vendorRepository struct {
	BaseRepository[models.Vendor]
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{BaseRepository: NewBaseRepository[models.Vendor](db), db: db}
}

func (r *vendorRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]models.Vendor, error) {
	var out []models.Vendor
	if err := r.db.WithContext(ctx).Where("builder_id = ?", builderID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list vendors by builder failed")
	}
	return out, nil
}
