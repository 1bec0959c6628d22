package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The balance is an aggregate over two tables, so there is no single row to
// lock. Running balance check and insert under serializable isolation is
// what closes the double-spend race between concurrent requests.
var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

// Allowed withdrawal transitions. Completed, failed and cancelled are
// terminal.
var withdrawalTransitions = map[string][]string{
	models.WithdrawalStatusPending: {
		models.WithdrawalStatusProcessing,
		models.WithdrawalStatusCancelled,
	},
	models.WithdrawalStatusProcessing: {
		models.WithdrawalStatusCompleted,
		models.WithdrawalStatusFailed,
	},
}

type TransactionItem struct {
	Type           string     `json:"type"`
	ID             uuid.UUID  `json:"id"`
	Amount         float64    `json:"amount"`
	Status         string     `json:"status"`
	OccurredAt     time.Time  `json:"occurred_at"`
	SessionID      *uuid.UUID `json:"session_id,omitempty"`
	TransactionRef *string    `json:"transaction_ref,omitempty"`
}

type WithdrawalService struct {
	db            *gorm.DB
	minimumAmount float64
}

func NewWithdrawalService(db *gorm.DB, minimumAmount float64) *WithdrawalService {
	return &WithdrawalService{db: db, minimumAmount: minimumAmount}
}

func (s *WithdrawalService) Request(ownerID uuid.UUID, amount float64, paymentMethodID uuid.UUID) (*models.Withdrawal, error) {
	if amount < s.minimumAmount {
		return nil, fmt.Errorf("%w: minimum withdrawal amount is %.2f", ErrValidation, s.minimumAmount)
	}

	withdrawal := models.Withdrawal{
		OwnerID:         ownerID,
		Amount:          amount,
		PaymentMethodID: paymentMethodID,
		Status:          models.WithdrawalStatusPending,
		RequestedAt:     time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.First(&method, "id = ? AND owner_id = ?", paymentMethodID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment method does not belong to this user", ErrNotFound)
			}
			return err
		}

		// Pending requests count against the balance here: approving two
		// requests against the same funds is the double-spend this guard
		// exists for.
		balance, err := spendableBalanceTx(tx, ownerID)
		if err != nil {
			return err
		}
		if amount > balance {
			return fmt.Errorf("%w: requested %.2f exceeds available balance %.2f", ErrConflict, amount, balance)
		}

		return tx.Create(&withdrawal).Error
	}, serializableTx)
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

// Transition is the operator path through the withdrawal state machine.
// Completing a withdrawal requires the payout's transaction reference.
func (s *WithdrawalService) Transition(withdrawalID uuid.UUID, newStatus string, transactionRef string) (*models.Withdrawal, error) {
	switch newStatus {
	case models.WithdrawalStatusProcessing,
		models.WithdrawalStatusCompleted,
		models.WithdrawalStatusFailed,
		models.WithdrawalStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown withdrawal status %q", ErrValidation, newStatus)
	}
	if newStatus == models.WithdrawalStatusCompleted && transactionRef == "" {
		return nil, fmt.Errorf("%w: a transaction reference is required to complete a withdrawal", ErrValidation)
	}

	var withdrawal models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&withdrawal, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: withdrawal not found", ErrNotFound)
			}
			return err
		}

		if !transitionAllowed(withdrawal.Status, newStatus) {
			return fmt.Errorf("%w: cannot move withdrawal from %s to %s", ErrConflict, withdrawal.Status, newStatus)
		}

		withdrawal.Status = newStatus
		if transactionRef != "" {
			withdrawal.TransactionRef = &transactionRef
		}
		if newStatus != models.WithdrawalStatusProcessing {
			now := time.Now()
			withdrawal.ProcessedAt = &now
		}
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// Cancel lets the owner withdraw a request that no operator has picked up
// yet.
func (s *WithdrawalService) Cancel(ownerID, withdrawalID uuid.UUID) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&withdrawal, "id = ? AND owner_id = ?", withdrawalID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: withdrawal not found", ErrNotFound)
			}
			return err
		}
		if withdrawal.Status != models.WithdrawalStatusPending {
			return fmt.Errorf("%w: only pending withdrawals can be cancelled", ErrConflict)
		}

		now := time.Now()
		withdrawal.Status = models.WithdrawalStatusCancelled
		withdrawal.ProcessedAt = &now
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (s *WithdrawalService) ListByOwner(ownerID uuid.UUID) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := s.db.Where("owner_id = ?", ownerID).Order("requested_at desc").Find(&withdrawals).Error
	return withdrawals, err
}

func (s *WithdrawalService) ListAll(status string) ([]models.Withdrawal, error) {
	query := s.db.Order("requested_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var withdrawals []models.Withdrawal
	err := query.Find(&withdrawals).Error
	return withdrawals, err
}

// Transactions merges earnings and withdrawals into one chronological feed,
// newest first, for the mentor's statement view.
func (s *WithdrawalService) Transactions(ownerID uuid.UUID) ([]TransactionItem, error) {
	var earnings []models.Earning
	if err := s.db.Where("owner_id = ?", ownerID).Find(&earnings).Error; err != nil {
		return nil, err
	}
	var withdrawals []models.Withdrawal
	if err := s.db.Where("owner_id = ?", ownerID).Find(&withdrawals).Error; err != nil {
		return nil, err
	}

	items := make([]TransactionItem, 0, len(earnings)+len(withdrawals))
	for _, e := range earnings {
		sessionID := e.SessionID
		items = append(items, TransactionItem{
			Type:       "earning",
			ID:         e.ID,
			Amount:     e.NetAmount,
			Status:     e.Status,
			OccurredAt: e.CreatedAt,
			SessionID:  &sessionID,
		})
	}
	for _, w := range withdrawals {
		items = append(items, TransactionItem{
			Type:           "withdrawal",
			ID:             w.ID,
			Amount:         w.Amount,
			Status:         w.Status,
			OccurredAt:     w.RequestedAt,
			TransactionRef: w.TransactionRef,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	return items, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range withdrawalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
