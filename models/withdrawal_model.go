package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
	WithdrawalStatusCancelled  = "cancelled"
)

type Withdrawal struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         uuid.UUID `gorm:"not null;index" json:"owner_id"`
	Amount          float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethodID uuid.UUID `gorm:"not null" json:"payment_method_id"`
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	TransactionRef  *string   `gorm:"size:128" json:"transaction_ref,omitempty"`

	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	Owner         User          `gorm:"foreignkey:OwnerID" json:"-"`
	PaymentMethod PaymentMethod `gorm:"foreignkey:PaymentMethodID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
