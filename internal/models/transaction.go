package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryType is the canonical direction of a ledger entry. The stored
// amount is always a positive magnitude; direction is carried here.
type EntryType string

const (
	EntryCredit EntryType = "Credit"
	EntryDebit  EntryType = "Debit"
)

// ParseEntryType normalizes a transaction type case-insensitively into
// the canonical Credit/Debit pair. Anything else is rejected so the
// mutation and reporting paths can never disagree on direction.
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit":
		return EntryCredit, nil
	case "debit":
		return EntryDebit, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is an append-only ledger entry against a budget. Rows are
// never updated or deleted by any exposed operation.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BudgetID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"budgetId" validate:"required"`
	VendorID  *uuid.UUID      `gorm:"type:uuid;index" json:"vendorId"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Type      string          `gorm:"type:varchar(16);not null" json:"type"`
	Category  string          `json:"category"`
	Note      string          `gorm:"type:text" json:"note"`
	Vendor    *Vendor         `gorm:"foreignKey:VendorID" json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
