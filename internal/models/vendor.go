package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is a supplier owned by a builder. Created directly or via the
// card-scanning flow on the mobile client; read-only in the ledger's view.
type Vendor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorName  string    `gorm:"not null" json:"vendorName" validate:"required"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Contact     string    `json:"contact"`
	Address     string    `json:"address"`
	Profile     string    `json:"profile"`
	BuilderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"builderId" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
