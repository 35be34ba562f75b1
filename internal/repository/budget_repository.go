package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"gorm.io/gorm"
)

type BudgetRepository interface {
	BaseRepository[models.Budget]
	GetFirstByProject(ctx context.Context, projectID uuid.UUID, dest *models.Budget) error
	GetWithTransactions(ctx context.Context, budgetID uuid.UUID, dest *models.Budget) error
	ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]models.Budget, error)
}

type budgetRepository struct {
	BaseRepository[models.Budget]
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{BaseRepository: NewBaseRepository[models.Budget](db), db: db}
}

func (r *budgetRepository) GetFirstByProject(ctx context.Context, projectID uuid.UUID, dest *models.Budget) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "budget not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get budget by project failed")
	}
	return nil
}

func (r *budgetRepository) GetWithTransactions(ctx context.Context, budgetID uuid.UUID, dest *models.Budget) error {
	if err := r.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Transactions.Vendor").
		First(dest, "id = ?", budgetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "budget not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get budget with transactions failed")
	}
	return nil
}

// ListByProjects loads budgets with their transactions and parent
// project for the reporting aggregator.
func (r *budgetRepository) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]models.Budget, error) {
	var out []models.Budget
	if err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Preload("Transactions").
		Preload("Project").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list budgets by projects failed")
	}
	return out, nil
}
