package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundService struct {
	db *gorm.DB
}

func NewRefundService(db *gorm.DB) *RefundService {
	return &RefundService{db: db}
}

// RequestRefund reverses the student payment of a cancelled session. The
// mentor-side earning is reversed in the same transaction when the mentor's
// balance still covers it; otherwise the reversal is queued for manual
// reconciliation instead of silently driving the balance negative.
func (s *RefundService) RequestRefund(sessionID, studentID uuid.UUID, reason string) (*models.StudentPayment, error) {
	var payment models.StudentPayment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: session not found", ErrNotFound)
			}
			return err
		}
		if session.StudentID != studentID {
			return fmt.Errorf("%w: session does not belong to this student", ErrNotFound)
		}
		if session.Status != models.SessionStatusCancelled {
			return fmt.Errorf("%w: refunds are only available for cancelled sessions", ErrConflict)
		}

		if err := tx.First(&payment, "session_id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no payment recorded for this session", ErrNotFound)
			}
			return err
		}
		if payment.Status != models.StudentPaymentStatusCompleted {
			return fmt.Errorf("%w: payment is %s, only completed payments can be refunded", ErrConflict, payment.Status)
		}

		now := time.Now()
		payment.Status = models.StudentPaymentStatusRefunded
		payment.RefundReason = &reason
		payment.RefundedAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var earning models.Earning
		err := tx.First(&earning, "session_id = ?", sessionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		switch earning.Status {
		case models.EarningStatusPending:
			return tx.Model(&earning).Update("status", models.EarningStatusRefunded).Error
		case models.EarningStatusCompleted:
			balance, err := spendableBalanceTx(tx, earning.OwnerID)
			if err != nil {
				return err
			}
			if balance >= earning.NetAmount {
				return tx.Model(&earning).Update("status", models.EarningStatusRefunded).Error
			}
			return tx.Create(&models.RefundReconciliation{
				SessionID: sessionID,
				EarningID: earning.ID,
				OwnerID:   earning.OwnerID,
				Amount:    earning.NetAmount,
				Reason:    reason,
				Status:    models.ReconciliationStatusQueued,
			}).Error
		}
		return nil
	}, serializableTx)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ResolveReconciliation closes a queued entry once an operator has recovered
// the funds out of band, moving the earning to refunded regardless of the
// current balance.
func (s *RefundService) ResolveReconciliation(reconciliationID, adminID uuid.UUID) (*models.RefundReconciliation, error) {
	var entry models.RefundReconciliation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "id = ?", reconciliationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: reconciliation entry not found", ErrNotFound)
			}
			return err
		}
		if entry.Status == models.ReconciliationStatusResolved {
			return fmt.Errorf("%w: reconciliation entry already resolved", ErrConflict)
		}

		if err := tx.Model(&models.Earning{}).
			Where("id = ?", entry.EarningID).
			Update("status", models.EarningStatusRefunded).Error; err != nil {
			return err
		}

		now := time.Now()
		entry.Status = models.ReconciliationStatusResolved
		entry.ResolvedBy = &adminID
		entry.ResolvedAt = &now
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RefundService) ListReconciliations(status string) ([]models.RefundReconciliation, error) {
	query := s.db.Order("created_at asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var entries []models.RefundReconciliation
	err := query.Find(&entries).Error
	return entries, err
}
