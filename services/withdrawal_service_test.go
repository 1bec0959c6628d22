package services

import (
	"testing"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMinimumWithdrawal = 1000.0

func seedCompletedEarnings(t *testing.T, db *gorm.DB, mentorID, studentID uuid.UUID, amounts ...float64) {
	t.Helper()
	for _, amount := range amounts {
		session := createSession(t, db, mentorID, studentID, models.SessionStatusCompleted, 60)
		createEarning(t, db, mentorID, session.ID, amount, models.EarningStatusCompleted)
	}
}

func TestRequestBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 5000)

	_, err := svc.Request(mentor.ID, 999.99, method.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRequestExceedingBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 1500)

	_, err := svc.Request(mentor.ID, 1500.01, method.ID)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRequestWithForeignPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	other := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, other.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 5000)

	_, err := svc.Request(mentor.ID, 1200, method.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestExactBalanceThenNothingLeft(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 1000)

	first, err := svc.Request(mentor.ID, 1000, method.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, first.Status)

	// The pending request reserves the funds: any further request fails.
	_, err = svc.Request(mentor.ID, 1000, method.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelReleasesReservedFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 1000)

	first, err := svc.Request(mentor.ID, 1000, method.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(mentor.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.ProcessedAt)

	_, err = svc.Request(mentor.ID, 1000, method.ID)
	assert.NoError(t, err)
}

func TestCancelOnlyFromPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 2000)

	w, err := svc.Request(mentor.ID, 1500, method.ID)
	require.NoError(t, err)
	_, err = svc.Transition(w.ID, models.WithdrawalStatusProcessing, "")
	require.NoError(t, err)

	_, err = svc.Cancel(mentor.ID, w.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTransitionStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		ref     string
		wantErr error
	}{
		{name: "pending to processing", from: models.WithdrawalStatusPending, to: models.WithdrawalStatusProcessing},
		{name: "pending to cancelled", from: models.WithdrawalStatusPending, to: models.WithdrawalStatusCancelled},
		{name: "processing to completed with ref", from: models.WithdrawalStatusProcessing, to: models.WithdrawalStatusCompleted, ref: "TXN-123"},
		{name: "processing to failed", from: models.WithdrawalStatusProcessing, to: models.WithdrawalStatusFailed},
		{name: "pending straight to completed", from: models.WithdrawalStatusPending, to: models.WithdrawalStatusCompleted, ref: "TXN-123", wantErr: ErrConflict},
		{name: "processing back to pending", from: models.WithdrawalStatusProcessing, to: models.WithdrawalStatusPending, wantErr: ErrValidation},
		{name: "completed is terminal", from: models.WithdrawalStatusCompleted, to: models.WithdrawalStatusProcessing, wantErr: ErrConflict},
		{name: "failed is terminal", from: models.WithdrawalStatusFailed, to: models.WithdrawalStatusProcessing, wantErr: ErrConflict},
		{name: "cancelled is terminal", from: models.WithdrawalStatusCancelled, to: models.WithdrawalStatusProcessing, wantErr: ErrConflict},
		{name: "completed without ref", from: models.WithdrawalStatusProcessing, to: models.WithdrawalStatusCompleted, wantErr: ErrValidation},
		{name: "unknown status", from: models.WithdrawalStatusPending, to: "exploded", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewWithdrawalService(db, testMinimumWithdrawal)
			mentor := createUser(t, db, "mentor")
			method := createPaymentMethod(t, db, mentor.ID)

			w := models.Withdrawal{
				OwnerID: mentor.ID, Amount: 1200, PaymentMethodID: method.ID,
				Status: tt.from, RequestedAt: time.Now(),
			}
			require.NoError(t, db.Create(&w).Error)

			updated, err := svc.Transition(w.ID, tt.to, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var reloaded models.Withdrawal
				require.NoError(t, db.First(&reloaded, "id = ?", w.ID).Error)
				assert.Equal(t, tt.from, reloaded.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			if tt.to == models.WithdrawalStatusCompleted {
				require.NotNil(t, updated.TransactionRef)
				assert.Equal(t, tt.ref, *updated.TransactionRef)
				assert.NotNil(t, updated.ProcessedAt)
			}
		})
	}
}

func TestTransitionUnknownWithdrawal(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)

	_, err := svc.Transition(uuid.New(), models.WithdrawalStatusProcessing, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBalanceNeverNegativeAcrossLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	ledger := NewEarningsService(db)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)
	seedCompletedEarnings(t, db, mentor.ID, student.ID, 1500, 2500)

	w1, err := svc.Request(mentor.ID, 3000, method.ID)
	require.NoError(t, err)
	_, err = svc.Transition(w1.ID, models.WithdrawalStatusProcessing, "")
	require.NoError(t, err)
	_, err = svc.Transition(w1.ID, models.WithdrawalStatusCompleted, "TXN-1")
	require.NoError(t, err)

	balance, err := ledger.AvailableBalance(mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance)

	w2, err := svc.Request(mentor.ID, 1000, method.ID)
	require.NoError(t, err)
	_, err = svc.Transition(w2.ID, models.WithdrawalStatusProcessing, "")
	require.NoError(t, err)
	_, err = svc.Transition(w2.ID, models.WithdrawalStatusFailed, "")
	require.NoError(t, err)

	// The failed payout releases its funds.
	balance, err = ledger.AvailableBalance(mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance)
	assert.GreaterOrEqual(t, balance, 0.0)
}

func TestTransactionsFeedMergesChronologically(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, testMinimumWithdrawal)
	mentor := createUser(t, db, "mentor")
	student := createUser(t, db, "student")
	method := createPaymentMethod(t, db, mentor.ID)

	base := time.Now().Add(-72 * time.Hour)

	s1 := createSession(t, db, mentor.ID, student.ID, models.SessionStatusCompleted, 60)
	e1 := createEarning(t, db, mentor.ID, s1.ID, 2000, models.EarningStatusCompleted)
	require.NoError(t, db.Model(e1).Update("created_at", base).Error)

	require.NoError(t, db.Create(&models.Withdrawal{
		OwnerID: mentor.ID, Amount: 1500, PaymentMethodID: method.ID,
		Status: models.WithdrawalStatusCompleted, RequestedAt: base.Add(24 * time.Hour),
	}).Error)

	s2 := createSession(t, db, mentor.ID, student.ID, models.SessionStatusCompleted, 60)
	e2 := createEarning(t, db, mentor.ID, s2.ID, 900, models.EarningStatusPending)
	require.NoError(t, db.Model(e2).Update("created_at", base.Add(48*time.Hour)).Error)

	items, err := svc.Transactions(mentor.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "earning", items[0].Type)
	assert.Equal(t, 900.0, items[0].Amount)
	assert.Equal(t, "withdrawal", items[1].Type)
	assert.Equal(t, 1500.0, items[1].Amount)
	assert.Equal(t, "earning", items[2].Type)
	assert.Equal(t, 2000.0, items[2].Amount)

	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].OccurredAt.After(items[i-1].OccurredAt))
	}
}
