package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses. Free text in practice; these are the values the
// mobile client renders.
const (
	StatusOnGoing   = "onGoing"
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

// Project is a unit of construction work owned by a builder. It carries
// one or more budgets and optionally a linked client. Deletion is a
// soft flip of IsVisible; budgets and transactions are never cascaded
// so historical reporting keeps working.
type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectName string     `gorm:"not null;index" json:"projectName" validate:"required"`
	OwnerName   string     `gorm:"not null" json:"ownerName"`
	BuilderID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"builderId" validate:"required"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"clientId"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Status      string     `gorm:"type:varchar(32);not null;default:onGoing" json:"status"`
	IsVisible   bool       `gorm:"not null;default:true;index" json:"isVisible"`
	Budgets     []Budget   `gorm:"foreignKey:ProjectID" json:"budgets,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
