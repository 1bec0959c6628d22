package services

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Local mobile-wallet numbers (bKash, Nagad, Rocket) are eleven digits
// starting 013-019, with an optional 88 country prefix.
var bdPhonePattern = regexp.MustCompile(`^(\+?88)?01[3-9][0-9]{8}$`)

type AddPaymentMethodInput struct {
	Kind string `validate:"required,oneof=mobile_wallet bank_account"`

	WalletProvider string `validate:"required_if=Kind mobile_wallet,omitempty,max=50"`
	WalletNumber   string `validate:"required_if=Kind mobile_wallet,omitempty,bd_phone"`

	AccountName   string `validate:"required_if=Kind bank_account,omitempty,max=255"`
	AccountNumber string `validate:"required_if=Kind bank_account,omitempty,max=50"`
	BankName      string `validate:"required_if=Kind bank_account,omitempty,max=255"`
	BranchName    string `validate:"required_if=Kind bank_account,omitempty,max=255"`

	IsDefault bool
}

type PaymentMethodService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewPaymentMethodService(db *gorm.DB) *PaymentMethodService {
	v := validator.New()
	v.RegisterValidation("bd_phone", func(fl validator.FieldLevel) bool {
		return bdPhonePattern.MatchString(fl.Field().String())
	})
	return &PaymentMethodService{db: db, validate: v}
}

func (s *PaymentMethodService) Add(ownerID uuid.UUID, input AddPaymentMethodInput) (*models.PaymentMethod, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	method := models.PaymentMethod{
		OwnerID: ownerID,
		Kind:    input.Kind,
	}
	switch input.Kind {
	case models.PaymentMethodMobileWallet:
		method.WalletProvider = &input.WalletProvider
		method.WalletNumber = &input.WalletNumber
	case models.PaymentMethodBankAccount:
		method.AccountName = &input.AccountName
		method.AccountNumber = &input.AccountNumber
		method.BankName = &input.BankName
		method.BranchName = &input.BranchName
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PaymentMethod{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
			return err
		}

		// The first method an owner registers is always the default.
		method.IsDefault = count == 0 || input.IsDefault

		if method.IsDefault && count > 0 {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("owner_id = ?", ownerID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(&method).Error
	})
	if err != nil {
		return nil, err
	}

	return &method, nil
}

// SetDefault clears every other default of the owner and promotes the target
// inside one transaction, so readers never observe zero or two defaults.
func (s *PaymentMethodService) SetDefault(ownerID, methodID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.First(&method, "id = ? AND owner_id = ?", methodID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment method does not belong to this user", ErrNotFound)
			}
			return err
		}

		if err := tx.Model(&models.PaymentMethod{}).
			Where("owner_id = ? AND id <> ?", ownerID, methodID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		return tx.Model(&method).Update("is_default", true).Error
	})
}

func (s *PaymentMethodService) Remove(ownerID, methodID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.First(&method, "id = ? AND owner_id = ?", methodID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment method does not belong to this user", ErrNotFound)
			}
			return err
		}

		if err := tx.Delete(&method).Error; err != nil {
			return err
		}

		if !method.IsDefault {
			return nil
		}

		// Deleting the default promotes the oldest remaining method.
		var next models.PaymentMethod
		err := tx.Where("owner_id = ?", ownerID).Order("created_at asc").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

func (s *PaymentMethodService) List(ownerID uuid.UUID) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at asc").Find(&methods).Error
	return methods, err
}
