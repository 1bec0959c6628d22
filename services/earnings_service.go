package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EarningsSummary struct {
	TotalEarned float64 `json:"total_earned"`
	Pending     float64 `json:"pending"`
	Withdrawn   float64 `json:"withdrawn"`
	Available   float64 `json:"available"`
}

type EarningsService struct {
	db *gorm.DB
}

func NewEarningsService(db *gorm.DB) *EarningsService {
	return &EarningsService{db: db}
}

// RecordEarning books the mentor-side record for a billed session. One
// earning per session; a second call for the same session is a conflict.
func (s *EarningsService) RecordEarning(session *models.Session, grossAmount, feeRate float64) (*models.Earning, error) {
	if grossAmount < 0 {
		return nil, fmt.Errorf("%w: gross amount must not be negative", ErrValidation)
	}
	if feeRate < 0 || feeRate > 1 {
		return nil, fmt.Errorf("%w: fee rate must be between 0 and 1", ErrValidation)
	}

	fee := roundMoney(grossAmount * feeRate)
	earning := models.Earning{
		OwnerID:     session.MentorID,
		SessionID:   session.ID,
		GrossAmount: grossAmount,
		PlatformFee: fee,
		NetAmount:   roundMoney(grossAmount - fee),
		Status:      models.EarningStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Earning{}).Where("session_id = ?", session.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: an earning already exists for this session", ErrConflict)
		}
		return tx.Create(&earning).Error
	})
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

func (s *EarningsService) MarkCompleted(earningID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var earning models.Earning
		if err := tx.First(&earning, "id = ?", earningID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: earning not found", ErrNotFound)
			}
			return err
		}
		if earning.Status != models.EarningStatusPending {
			return fmt.Errorf("%w: earning is %s, not pending", ErrConflict, earning.Status)
		}
		return tx.Model(&earning).Update("status", models.EarningStatusCompleted).Error
	})
}

// MarkRefunded reverses an earning. A completed earning may only be refunded
// while the owner's available balance still covers it; otherwise the funds
// were already paid out and the reversal needs manual reconciliation.
func (s *EarningsService) MarkRefunded(earningID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var earning models.Earning
		if err := tx.First(&earning, "id = ?", earningID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: earning not found", ErrNotFound)
			}
			return err
		}
		switch earning.Status {
		case models.EarningStatusRefunded:
			return fmt.Errorf("%w: earning already refunded", ErrConflict)
		case models.EarningStatusCompleted:
			balance, err := spendableBalanceTx(tx, earning.OwnerID)
			if err != nil {
				return err
			}
			if balance < earning.NetAmount {
				return fmt.Errorf("%w: funds already withdrawn, refund requires reconciliation", ErrConflict)
			}
		}
		return tx.Model(&earning).Update("status", models.EarningStatusRefunded).Error
	}, serializableTx)
}

// AvailableBalance is derived on every read rather than kept as a running
// counter: completed net earnings minus withdrawals that hold funds.
func (s *EarningsService) AvailableBalance(ownerID uuid.UUID) (float64, error) {
	return availableBalanceTx(s.db, ownerID)
}

func (s *EarningsService) PendingAmount(ownerID uuid.UUID) (float64, error) {
	var pending float64
	err := s.db.Model(&models.Earning{}).
		Where("owner_id = ? AND status = ?", ownerID, models.EarningStatusPending).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&pending).Error
	return pending, err
}

func (s *EarningsService) Summary(ownerID uuid.UUID) (*EarningsSummary, error) {
	summary := EarningsSummary{}

	err := s.db.Model(&models.Earning{}).
		Where("owner_id = ? AND status = ?", ownerID, models.EarningStatusCompleted).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&summary.TotalEarned).Error
	if err != nil {
		return nil, err
	}

	summary.Pending, err = s.PendingAmount(ownerID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&models.Withdrawal{}).
		Where("owner_id = ? AND status IN ?", ownerID, fundsHeldStatuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.Withdrawn).Error
	if err != nil {
		return nil, err
	}

	summary.Available = roundMoney(summary.TotalEarned - summary.Withdrawn)
	return &summary, nil
}

func (s *EarningsService) ListByOwner(ownerID uuid.UUID) ([]models.Earning, error) {
	var earnings []models.Earning
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&earnings).Error
	return earnings, err
}

// Withdrawals in these states have taken funds out of the available balance.
var fundsHeldStatuses = []string{
	models.WithdrawalStatusProcessing,
	models.WithdrawalStatusCompleted,
}

// Pending requests have not disbursed anything yet, but the amount is spoken
// for: committing new funds against it would let a mentor double-spend the
// same earnings across two requests.
var fundsReservedStatuses = []string{
	models.WithdrawalStatusPending,
	models.WithdrawalStatusProcessing,
	models.WithdrawalStatusCompleted,
}

func availableBalanceTx(tx *gorm.DB, ownerID uuid.UUID) (float64, error) {
	return balanceAgainst(tx, ownerID, fundsHeldStatuses)
}

func spendableBalanceTx(tx *gorm.DB, ownerID uuid.UUID) (float64, error) {
	return balanceAgainst(tx, ownerID, fundsReservedStatuses)
}

func balanceAgainst(tx *gorm.DB, ownerID uuid.UUID, withdrawalStatuses []string) (float64, error) {
	var earned float64
	err := tx.Model(&models.Earning{}).
		Where("owner_id = ? AND status = ?", ownerID, models.EarningStatusCompleted).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&earned).Error
	if err != nil {
		return 0, err
	}

	var withdrawn float64
	err = tx.Model(&models.Withdrawal{}).
		Where("owner_id = ? AND status IN ?", ownerID, withdrawalStatuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error
	if err != nil {
		return 0, err
	}

	return roundMoney(earned - withdrawn), nil
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
