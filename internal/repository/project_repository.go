package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]models.Project, error)
	ListByBuilderWithBudgets(ctx context.Context, builderID uuid.UUID) ([]models.Project, error)
	GetVisibleByName(ctx context.Context, name string, dest *models.Project) error
	GetWithBudgets(ctx context.Context, projectID uuid.UUID, dest *models.Project) error
	Hide(ctx context.Context, projectID uuid.UUID) error
	SetClient(ctx context.Context, projectID, clientID uuid.UUID) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListByBuilder(ctx context.Context, builderID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("builder_id = ? AND is_visible = ?", builderID, true).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by builder failed")
	}
	return out, nil
}

// ListByBuilderWithBudgets does not filter on visibility: hidden
// projects stay part of historical reporting.
func (r *projectRepository) ListByBuilderWithBudgets(ctx context.Context, builderID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("builder_id = ?", builderID).Preload("Budgets").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects with budgets failed")
	}
	return out, nil
}

func (r *projectRepository) GetVisibleByName(ctx context.Context, name string, dest *models.Project) error {
	if err := r.db.WithContext(ctx).Where("project_name = ? AND is_visible = ?", name, true).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "project not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get project by name failed")
	}
	return nil
}

func (r *projectRepository) GetWithBudgets(ctx context.Context, projectID uuid.UUID, dest *models.Project) error {
	if err := r.db.WithContext(ctx).Preload("Budgets.Transactions").First(dest, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "project not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get project with budgets failed")
	}
	return nil
}

func (r *projectRepository) Hide(ctx context.Context, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Update("is_visible", false)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "hide project failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}

func (r *projectRepository) SetClient(ctx context.Context, projectID, clientID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Update("client_id", clientID)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "set project client failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
