package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: database is one database per connection; pin the
	// pool to a single connection so every query sees the same data.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.PaymentMethod{},
		&models.Session{},
		&models.SessionActivity{},
		&models.StudentPayment{},
		&models.Earning{},
		&models.Withdrawal{},
		&models.RefundReconciliation{},
	)
	require.NoError(t, err)

	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	userSeq++
	user := models.User{
		FullName: fmt.Sprintf("Test %s %d", role, userSeq),
		Email:    fmt.Sprintf("%s%d@example.com", role, userSeq),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createSession(t *testing.T, db *gorm.DB, mentorID, studentID uuid.UUID, status string, durationMinutes int) *models.Session {
	t.Helper()
	session := models.Session{
		MentorID:                mentorID,
		StudentID:               studentID,
		ScheduledDate:           time.Now().Add(-2 * time.Hour),
		ExpectedDurationMinutes: durationMinutes,
		Status:                  status,
		VerificationCode:        "ABC234",
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}

func createEarning(t *testing.T, db *gorm.DB, ownerID, sessionID uuid.UUID, net float64, status string) *models.Earning {
	t.Helper()
	earning := models.Earning{
		OwnerID:     ownerID,
		SessionID:   sessionID,
		GrossAmount: net,
		PlatformFee: 0,
		NetAmount:   net,
		Status:      status,
	}
	require.NoError(t, db.Create(&earning).Error)
	return &earning
}

func createPaymentMethod(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.PaymentMethod {
	t.Helper()
	provider := "bKash"
	number := "01712345678"
	method := models.PaymentMethod{
		OwnerID:        ownerID,
		Kind:           models.PaymentMethodMobileWallet,
		WalletProvider: &provider,
		WalletNumber:   &number,
		IsDefault:      true,
	}
	require.NoError(t, db.Create(&method).Error)
	return &method
}
