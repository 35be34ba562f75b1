package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	"github.com/onsite-build/engine/internal/repository"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"github.com/onsite-build/engine/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WorkerService interface {
	CreateWorker(ctx context.Context, input *CreateWorkerInput) (*models.Worker, error)
	ListWorkers(ctx context.Context, projectID uuid.UUID) ([]models.Worker, error)
	RecordAttendance(ctx context.Context, workerID uuid.UUID, date time.Time, present bool) (*models.Attendance, error)
}

type CreateWorkerInput struct {
	ProjectID uuid.UUID
	Name      string
	Contact   string
	Salary    decimal.Decimal
}

type workerService struct {
	workerRepo     repository.WorkerRepository
	attendanceRepo repository.AttendanceRepository
	projectRepo    repository.ProjectRepository
}

func NewWorkerService(workerRepo repository.WorkerRepository, attendanceRepo repository.AttendanceRepository, projectRepo repository.ProjectRepository) WorkerService {
	return &workerService{workerRepo: workerRepo, attendanceRepo: attendanceRepo, projectRepo: projectRepo}
}

var _ WorkerService = (*workerService)(nil)

func (s *workerService) CreateWorker(ctx context.Context, input *CreateWorkerInput) (*models.Worker, error) {
	var project models.Project
	if err := s.projectRepo.GetByID(ctx, input.ProjectID, &project); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "project not found")
		}
		return nil, err
	}

	worker := &models.Worker{
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Contact:   input.Contact,
		Salary:    input.Salary,
	}
	if err := s.workerRepo.Create(ctx, worker); err != nil {
		return nil, err
	}
	logger.L().Info("worker created",
		zap.String("worker_id", worker.ID.String()),
		zap.String("project_id", input.ProjectID.String()),
	)
	return worker, nil
}

func (s *workerService) ListWorkers(ctx context.Context, projectID uuid.UUID) ([]models.Worker, error) {
	return s.workerRepo.ListByProject(ctx, projectID)
}

// RecordAttendance upserts the worker's attendance for the day: one
// row per worker and date, later calls overwrite the present flag.
func (s *workerService) RecordAttendance(ctx context.Context, workerID uuid.UUID, date time.Time, present bool) (*models.Attendance, error) {
	var worker models.Worker
	if err := s.workerRepo.GetByID(ctx, workerID, &worker); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "worker not found")
		}
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var att models.Attendance
	err := s.attendanceRepo.GetByWorkerAndDate(ctx, workerID, day, &att)
	switch {
	case err == nil:
		att.Present = present
		if err := s.attendanceRepo.Update(ctx, &att); err != nil {
			return nil, err
		}
	case appErr.IsCode(err, appErr.CodeNotFound):
		att = models.Attendance{WorkerID: workerID, Date: day, Present: present}
		if err := s.attendanceRepo.Create(ctx, &att); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return &att, nil
}
