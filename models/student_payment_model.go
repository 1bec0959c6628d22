package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StudentPaymentStatusPending   = "pending"
	StudentPaymentStatusCompleted = "completed"
	StudentPaymentStatusRefunded  = "refunded"
	StudentPaymentStatusFailed    = "failed"
)

type StudentPayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`
	SessionID uuid.UUID `gorm:"not null;uniqueIndex" json:"session_id"`

	Amount float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status string  `gorm:"size:20;not null;default:'pending'" json:"status"`

	RefundReason *string    `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	Student User    `gorm:"foreignkey:StudentID" json:"-"`
	Session Session `gorm:"foreignkey:SessionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *StudentPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
