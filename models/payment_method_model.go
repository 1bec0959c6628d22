package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodMobileWallet = "mobile_wallet"
	PaymentMethodBankAccount  = "bank_account"
)

type PaymentMethod struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;index" json:"owner_id"`
	Kind    string    `gorm:"size:20;not null" json:"kind"`

	WalletProvider *string `gorm:"size:50" json:"wallet_provider,omitempty"`
	WalletNumber   *string `gorm:"size:20" json:"wallet_number,omitempty"`

	AccountName   *string `gorm:"size:255" json:"account_name,omitempty"`
	AccountNumber *string `gorm:"size:50" json:"account_number,omitempty"`
	BankName      *string `gorm:"size:255" json:"bank_name,omitempty"`
	BranchName    *string `gorm:"size:255" json:"branch_name,omitempty"`

	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	Owner User `gorm:"foreignkey:OwnerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
