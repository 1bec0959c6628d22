package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationPolicy holds the tunable fraud-detection thresholds. Both are
// product knobs, not truths; defaults live in cmd/api.
type VerificationPolicy struct {
	// MinDurationRatio is the fraction of the scheduled duration both
	// parties must have been present together for.
	MinDurationRatio float64
	// MaxActivityGap is the longest silence tolerated between consecutive
	// activity entries before the session is treated as interrupted.
	MaxActivityGap time.Duration
}

type VerificationService struct {
	db     *gorm.DB
	policy VerificationPolicy
}

func NewVerificationService(db *gorm.DB, policy VerificationPolicy) *VerificationService {
	return &VerificationService{db: db, policy: policy}
}

// Verify decides from the activity log whether the session genuinely took
// place. On success the session becomes completed and its earning is
// released in the same transaction. On an activity failure the session is
// left untouched for manual dispute review.
func (s *VerificationService) Verify(sessionID uuid.UUID, code string) (*models.Session, error) {
	var session models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: session not found", ErrNotFound)
			}
			return err
		}

		// Re-verifying a completed session must never change its state.
		if session.Status == models.SessionStatusCompleted {
			return fmt.Errorf("%w: session has already been verified", ErrConflict)
		}
		if session.Status == models.SessionStatusCancelled {
			return fmt.Errorf("%w: session was cancelled", ErrConflict)
		}

		if code != "" && code != session.VerificationCode {
			return ErrInvalidCode
		}

		var activities []models.SessionActivity
		if err := tx.Where("session_id = ?", session.ID).Order("timestamp asc").Find(&activities).Error; err != nil {
			return err
		}

		expected := time.Duration(session.ExpectedDurationMinutes) * time.Minute
		if err := evaluateActivityLog(activities, session.MentorID, session.StudentID, expected, s.policy); err != nil {
			return err
		}

		session.IsVerified = true
		session.Status = models.SessionStatusCompleted
		session.NeedsReview = false
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		// Releasing the earning rides the same transaction as the status
		// flip.
		return tx.Model(&models.Earning{}).
			Where("session_id = ? AND status = ?", session.ID, models.EarningStatusPending).
			Update("status", models.EarningStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendActivity adds one join/leave entry to a session's evidence log.
// Entries are insert-only and must not move backwards in time.
func (s *VerificationService) AppendActivity(sessionID, actorID uuid.UUID, action string, timestamp time.Time) (*models.SessionActivity, error) {
	if action != models.ActivityActionJoin && action != models.ActivityActionLeave {
		return nil, fmt.Errorf("%w: action must be %q or %q", ErrValidation, models.ActivityActionJoin, models.ActivityActionLeave)
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	entry := models.SessionActivity{
		SessionID: sessionID,
		ActorID:   actorID,
		Action:    action,
		Timestamp: timestamp,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: session not found", ErrNotFound)
			}
			return err
		}
		if actorID != session.MentorID && actorID != session.StudentID {
			return fmt.Errorf("%w: actor is not a participant of this session", ErrNotFound)
		}
		if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusCancelled {
			return fmt.Errorf("%w: session is %s, activity log is closed", ErrConflict, session.Status)
		}

		var last models.SessionActivity
		err := tx.Where("session_id = ?", sessionID).Order("timestamp desc").First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && timestamp.Before(last.Timestamp) {
			return fmt.Errorf("%w: activity entries must not predate the last recorded entry", ErrValidation)
		}

		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// evaluateActivityLog applies the attendance policy to a timestamp-ordered
// log. It only reads; callers persist on success.
func evaluateActivityLog(entries []models.SessionActivity, mentorID, studentID uuid.UUID, expected time.Duration, policy VerificationPolicy) error {
	var (
		mentorJoin, mentorLeave   time.Time
		studentJoin, studentLeave time.Time
	)

	for _, entry := range entries {
		var firstJoin, lastLeave *time.Time
		switch entry.ActorID {
		case mentorID:
			firstJoin, lastLeave = &mentorJoin, &mentorLeave
		case studentID:
			firstJoin, lastLeave = &studentJoin, &studentLeave
		default:
			continue
		}
		switch entry.Action {
		case models.ActivityActionJoin:
			if firstJoin.IsZero() {
				*firstJoin = entry.Timestamp
			}
		case models.ActivityActionLeave:
			if entry.Timestamp.After(*lastLeave) {
				*lastLeave = entry.Timestamp
			}
		}
	}

	if mentorJoin.IsZero() || mentorLeave.IsZero() {
		return verificationFailed("mentor has no recorded join and leave")
	}
	if studentJoin.IsZero() || studentLeave.IsZero() {
		return verificationFailed("student has no recorded join and leave")
	}

	windowStart := mentorJoin
	if studentJoin.After(windowStart) {
		windowStart = studentJoin
	}
	windowEnd := mentorLeave
	if studentLeave.Before(windowEnd) {
		windowEnd = studentLeave
	}
	if !windowEnd.After(windowStart) {
		return verificationFailed("mentor and student were never present together")
	}

	actual := windowEnd.Sub(windowStart)
	required := time.Duration(policy.MinDurationRatio * float64(expected))
	if actual < required {
		return verificationFailed(fmt.Sprintf(
			"joint presence lasted %s, below the required %s of a %s session",
			actual, required, expected,
		))
	}

	// A long silence only counts as a disconnection when it follows a
	// leave; quiet time while everyone is still joined is expected.
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Action != models.ActivityActionLeave {
			continue
		}
		gap := entries[i].Timestamp.Sub(entries[i-1].Timestamp)
		if gap > policy.MaxActivityGap {
			return verificationFailed(fmt.Sprintf(
				"activity gap of %s exceeds the allowed %s",
				gap, policy.MaxActivityGap,
			))
		}
	}

	return nil
}
