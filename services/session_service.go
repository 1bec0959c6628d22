package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterSessionInput struct {
	MentorID                uuid.UUID
	StudentID               uuid.UUID
	ScheduledDate           time.Time
	ExpectedDurationMinutes int
	GrossAmount             float64
}

// SessionService is the intake boundary the booking system calls once a
// session has been paid for: it records the session, the student-side
// charge, and the pending mentor earning in one transaction.
type SessionService struct {
	db      *gorm.DB
	feeRate float64
}

func NewSessionService(db *gorm.DB, feeRate float64) *SessionService {
	return &SessionService{db: db, feeRate: feeRate}
}

func (s *SessionService) RegisterBilledSession(input RegisterSessionInput) (*models.Session, error) {
	if input.ExpectedDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: expected duration must be positive", ErrValidation)
	}
	if input.GrossAmount < 0 {
		return nil, fmt.Errorf("%w: gross amount must not be negative", ErrValidation)
	}
	if input.MentorID == input.StudentID {
		return nil, fmt.Errorf("%w: mentor and student must differ", ErrValidation)
	}

	var session models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := utils.GenerateSessionCode(tx)
		if err != nil {
			return err
		}

		session = models.Session{
			MentorID:                input.MentorID,
			StudentID:               input.StudentID,
			ScheduledDate:           input.ScheduledDate,
			ExpectedDurationMinutes: input.ExpectedDurationMinutes,
			Status:                  models.SessionStatusConfirmed,
			VerificationCode:        code,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		payment := models.StudentPayment{
			StudentID: input.StudentID,
			SessionID: session.ID,
			Amount:    input.GrossAmount,
			Status:    models.StudentPaymentStatusCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		fee := roundMoney(input.GrossAmount * s.feeRate)
		earning := models.Earning{
			OwnerID:     input.MentorID,
			SessionID:   session.ID,
			GrossAmount: input.GrossAmount,
			PlatformFee: fee,
			NetAmount:   roundMoney(input.GrossAmount - fee),
			Status:      models.EarningStatusPending,
		}
		return tx.Create(&earning).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) Cancel(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: session not found", ErrNotFound)
			}
			return err
		}
		if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusCancelled {
			return fmt.Errorf("%w: session is already %s", ErrConflict, session.Status)
		}
		session.Status = models.SessionStatusCancelled
		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) Get(sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := s.db.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("timestamp asc")
	}).First(&session, "id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session not found", ErrNotFound)
		}
		return nil, err
	}
	return &session, nil
}
