package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"github.com/onsite-build/engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectService owns project lifecycle: creation with the initial
// budget, listing, soft delete, and sharing with a client.
type ProjectService interface {
	CreateProject(ctx context.Context, builderID uuid.UUID, input *CreateProjectInput) (*CreateProjectResult, error)
	ListProjects(ctx context.Context, builderID uuid.UUID) ([]models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, builderID uuid.UUID) error
	ShareProject(ctx context.Context, projectID, builderID uuid.UUID, clientUsername string) (*models.Project, error)
}

type CreateProjectInput struct {
	ProjectName  string
	OwnerName    string
	BudgetAmount decimal.Decimal
	Location     string
	StartDate    *time.Time
	EndDate      *time.Time
}

type CreateProjectResult struct {
	Project models.Project `json:"newProject"`
	Budget  models.Budget  `json:"newBudget"`
}

type projectService struct {
	db            *gorm.DB
	projectRepo   repository.ProjectRepository
	userRepo      repository.UserRepository
	notifications NotificationService
}

func NewProjectService(db *gorm.DB, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifications NotificationService) ProjectService {
	return &projectService{db: db, projectRepo: projectRepo, userRepo: userRepo, notifications: notifications}
}

var _ ProjectService = (*projectService)(nil)

// CreateProject creates the project and its initial budget in one
// transaction. The budget starts fully funded: inHand equals the
// allocated amount.
func (s *projectService) CreateProject(ctx context.Context, builderID uuid.UUID, input *CreateProjectInput) (*CreateProjectResult, error) {
	logger.L().Info("create project", zap.String("builder_id", builderID.String()), zap.String("name", input.ProjectName))

	if input.BudgetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, appErr.New(appErr.CodeInvalid, "budget amount must be positive")
	}

	var existing models.Project
	if err := s.projectRepo.GetVisibleByName(ctx, input.ProjectName, &existing); err == nil {
		return nil, appErr.New(appErr.CodeAlreadyExists, "project already exists")
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	var owner models.User
	if err := s.userRepo.GetByUsername(ctx, input.OwnerName, &owner); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "owner not found")
		}
		return nil, err
	}

	var out CreateProjectResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := models.Project{
			ProjectName: input.ProjectName,
			OwnerName:   owner.Username,
			BuilderID:   builderID,
			Location:    input.Location,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Status:      models.StatusOnGoing,
			IsVisible:   true,
		}
		if err := tx.Create(&p).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create project failed")
		}

		b := models.Budget{
			ProjectID: p.ID,
			Amount:    input.BudgetAmount,
			InHand:    input.BudgetAmount,
		}
		if err := tx.Create(&b).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "create budget failed")
		}

		out = CreateProjectResult{Project: p, Budget: b}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("project created",
		zap.String("project_id", out.Project.ID.String()),
		zap.String("budget_id", out.Budget.ID.String()),
	)
	return &out, nil
}

func (s *projectService) ListProjects(ctx context.Context, builderID uuid.UUID) ([]models.Project, error) {
	return s.projectRepo.ListByBuilder(ctx, builderID)
}

func (s *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projectRepo.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject flips the visibility flag. Budgets and transactions are
// left untouched so the trial balance keeps reporting them.
func (s *projectService) DeleteProject(ctx context.Context, projectID, builderID uuid.UUID) error {
	var p models.Project
	if err := s.projectRepo.GetByID(ctx, projectID, &p); err != nil {
		return err
	}
	if p.BuilderID != builderID {
		return appErr.New(appErr.CodeUnauthorized, "user does not own project")
	}
	if err := s.projectRepo.Hide(ctx, projectID); err != nil {
		return err
	}
	logger.L().Info("project hidden", zap.String("project_id", projectID.String()))
	return nil
}

// ShareProject links a client to the project and notifies them. A
// project holds at most one client at a time; sharing again replaces
// the link.
func (s *projectService) ShareProject(ctx context.Context, projectID, builderID uuid.UUID, clientUsername string) (*models.Project, error) {
	var p models.Project
	if err := s.projectRepo.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.BuilderID != builderID {
		return nil, appErr.New(appErr.CodeUnauthorized, "user does not own project")
	}

	var client models.User
	if err := s.userRepo.GetByUsername(ctx, clientUsername, &client); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "client not found")
		}
		return nil, err
	}

	if err := s.projectRepo.SetClient(ctx, projectID, client.ID); err != nil {
		return nil, err
	}
	p.ClientID = &client.ID

	msg := fmt.Sprintf("Project %s has been shared with you.", p.ProjectName)
	if _, err := s.notifications.Notify(ctx, client.ID, msg); err != nil {
		// the share itself succeeded; notification is best-effort here
		logger.L().Warn("share notification failed", zap.Error(err), zap.String("project_id", projectID.String()))
	}

	logger.L().Info("project shared",
		zap.String("project_id", projectID.String()),
		zap.String("client_id", client.ID.String()),
	)
	return &p, nil
}
