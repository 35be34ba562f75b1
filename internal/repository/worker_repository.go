package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"gorm.io/gorm"
)

type WorkerRepository interface {
	BaseRepository[models.Worker]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Worker, error)
}

type workerRepository struct {
	BaseRepository[models.Worker]
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{BaseRepository: NewBaseRepository[models.Worker](db), db: db}
}

func (r *workerRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Worker, error) {
	var out []models.Worker
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list workers by project failed")
	}
	return out, nil
}

type AttendanceRepository interface {
	BaseRepository[models.Attendance]
	GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time, dest *models.Attendance) error
	MarkPaidForPeriod(ctx context.Context, workerID uuid.UUID, from, to time.Time) (int64, error)
}

type attendanceRepository struct {
	BaseRepository[models.Attendance]
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{BaseRepository: NewBaseRepository[models.Attendance](db), db: db}
}

func (r *attendanceRepository) GetByWorkerAndDate(ctx context.Context, workerID uuid.UUID, date time.Time, dest *models.Attendance) error {
	if err := r.db.WithContext(ctx).Where("worker_id = ? AND date = ?", workerID, date).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "attendance not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get attendance failed")
	}
	return nil
}

// MarkPaidForPeriod flips unpaid present days in [from, to) to paid and
// returns how many rows changed.
func (r *attendanceRepository) MarkPaidForPeriod(ctx context.Context, workerID uuid.UUID, from, to time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("worker_id = ? AND date >= ? AND date < ? AND present = ? AND paid = ?", workerID, from, to, true, false).
		Update("paid", true)
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "mark attendance paid failed")
	}
	return res.RowsAffected, nil
}
