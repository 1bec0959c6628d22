package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

const (
	ActivityActionJoin  = "join"
	ActivityActionLeave = "leave"
)

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MentorID  uuid.UUID `gorm:"not null;index" json:"mentor_id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`

	ScheduledDate           time.Time `gorm:"not null" json:"scheduled_date"`
	ExpectedDurationMinutes int       `gorm:"not null" json:"expected_duration_minutes"`

	Status           string `gorm:"size:20;not null;default:'pending'" json:"status"`
	VerificationCode string `gorm:"size:10" json:"-"`
	IsVerified       bool   `gorm:"not null;default:false" json:"is_verified"`
	NeedsReview      bool   `gorm:"not null;default:false" json:"needs_review"`

	Mentor     User              `gorm:"foreignkey:MentorID" json:"-"`
	Student    User              `gorm:"foreignkey:StudentID" json:"-"`
	Activities []SessionActivity `gorm:"foreignkey:SessionID" json:"activities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SessionActivity rows are insert-only evidence; nothing updates or deletes
// them after creation.
type SessionActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID uuid.UUID `gorm:"not null;index" json:"session_id"`
	ActorID   uuid.UUID `gorm:"not null" json:"actor_id"`
	Action    string    `gorm:"size:10;not null" json:"action"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *SessionActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
