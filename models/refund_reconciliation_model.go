package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReconciliationStatusQueued   = "queued"
	ReconciliationStatusResolved = "resolved"
)

// RefundReconciliation records a refund whose mentor-side earning reversal
// could not be applied because the mentor had already withdrawn the funds.
// An operator settles these by hand.
type RefundReconciliation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID uuid.UUID `gorm:"not null;index" json:"session_id"`
	EarningID uuid.UUID `gorm:"not null" json:"earning_id"`
	OwnerID   uuid.UUID `gorm:"not null;index" json:"owner_id"`

	Amount float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Reason string  `gorm:"type:text" json:"reason"`
	Status string  `gorm:"size:20;not null;default:'queued'" json:"status"`

	ResolvedBy *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RefundReconciliation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
