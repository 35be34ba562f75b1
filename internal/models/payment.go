package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment is a salary payout round-trip through the Khalti gateway.
// Created pending at initialization; completed by the verification
// callback, which also marks the month's attendance paid and records
// the matching debit in the ledger.
type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WorkerID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"workerId" validate:"required"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	TotalSalary    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalSalary"`
	Month          string          `gorm:"type:varchar(16);not null" json:"month" validate:"required"`
	Year           int             `gorm:"not null" json:"year" validate:"required"`
	Status         string          `gorm:"type:varchar(16);index;not null;default:pending" json:"status"`
	TransactionRef string          `json:"transactionRef"`
	Pidx           string          `gorm:"index" json:"pidx"`
	GatewayPayload datatypes.JSON  `gorm:"type:jsonb" json:"gatewayPayload,omitempty"`
	PaidAt         *time.Time      `json:"paidAt"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
