package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/onsite-build/engine/internal/models"
	appErr "github.com/onsite-build/engine/pkg/errors"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	BaseRepository[models.Payment]
	CompletePending(ctx context.Context, workerID, projectID uuid.UUID, month string, year int, transactionRef, pidx string) (int64, error)
}

type paymentRepository struct {
	BaseRepository[models.Payment]
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{BaseRepository: NewBaseRepository[models.Payment](db), db: db}
}

// CompletePending marks every matching pending payment completed and
// returns how many rows changed; zero means no pending payment matched
// the gateway callback.
func (r *paymentRepository) CompletePending(ctx context.Context, workerID, projectID uuid.UUID, month string, year int, transactionRef, pidx string) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("worker_id = ? AND project_id = ? AND month = ? AND year = ? AND status = ?",
			workerID, projectID, month, year, models.PaymentPending).
		Updates(map[string]any{
			"status":          models.PaymentCompleted,
			"transaction_ref": transactionRef,
			"pidx":            pidx,
			"paid_at":         now,
		})
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "complete payment failed")
	}
	return res.RowsAffected, nil
}
