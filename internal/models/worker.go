package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Worker is a laborer attached to a project.
type Worker struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID       `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	Name      string          `gorm:"not null" json:"name" validate:"required"`
	Contact   string          `json:"contact"`
	Salary    decimal.Decimal `gorm:"type:numeric(14,2)" json:"salary"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (w *Worker) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Attendance is one worker-day. Payment verification flips Paid; the
// ledger engine itself never mutates attendance.
type Attendance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_worker_date,unique" json:"workerId" validate:"required"`
	Date      time.Time `gorm:"not null;index:idx_attendance_worker_date,unique" json:"date" validate:"required"`
	Present   bool      `gorm:"not null;default:true" json:"present"`
	Paid      bool      `gorm:"not null;default:false;index" json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
