package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is the per-project financial envelope. Amount is the total
// allocated at project creation; InHand is the running cash balance and
// starts equal to Amount ("fully funded, nothing spent yet").
//
// Invariant: InHand = Amount + Σ(credits) − Σ(debits) over all
// transactions ever applied to this budget. InHand is only ever mutated
// inside the add-transaction unit of work.
type Budget struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"projectId" validate:"required"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	InHand       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"inHand"`
	Transactions []Transaction   `gorm:"foreignKey:BudgetID" json:"transactions,omitempty"`
	Project      *Project        `gorm:"foreignKey:ProjectID" json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
