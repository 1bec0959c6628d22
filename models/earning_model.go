package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EarningStatusPending   = "pending"
	EarningStatusCompleted = "completed"
	EarningStatusRefunded  = "refunded"
)

type Earning struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   uuid.UUID `gorm:"not null;index" json:"owner_id"`
	SessionID uuid.UUID `gorm:"not null;uniqueIndex" json:"session_id"`

	GrossAmount float64 `gorm:"type:numeric(10,2);not null" json:"gross_amount"`
	PlatformFee float64 `gorm:"type:numeric(10,2);not null" json:"platform_fee"`
	NetAmount   float64 `gorm:"type:numeric(10,2);not null" json:"net_amount"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Owner   User    `gorm:"foreignkey:OwnerID" json:"-"`
	Session Session `gorm:"foreignkey:SessionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Earning) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
