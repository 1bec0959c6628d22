package handlers

import (
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RegisterSessionRequest struct {
	MentorID                string  `json:"mentor_id" validate:"required,uuid"`
	StudentID               string  `json:"student_id" validate:"required,uuid"`
	ScheduledDate           string  `json:"scheduled_date" validate:"required"`
	ExpectedDurationMinutes int     `json:"expected_duration_minutes" validate:"required,gt=0"`
	GrossAmount             float64 `json:"gross_amount" validate:"required,gte=0"`
}

// RegisterSession is the intake endpoint the booking system calls once a
// session has been paid for.
func RegisterSession(c *fiber.Ctx) error {
	var req RegisterSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	scheduledDate, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_date must be RFC3339"})
	}
	mentorID, _ := uuid.Parse(req.MentorID)
	studentID, _ := uuid.Parse(req.StudentID)

	session, err := sessions.RegisterBilledSession(services.RegisterSessionInput{
		MentorID:                mentorID,
		StudentID:               studentID,
		ScheduledDate:           scheduledDate,
		ExpectedDurationMinutes: req.ExpectedDurationMinutes,
		GrossAmount:             req.GrossAmount,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		return respondError(c, err)
	}

	userID := currentUserID(c)
	if currentUserRole(c) != "admin" && userID != session.MentorID && userID != session.StudentID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	return c.JSON(session)
}

func CancelSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	session, err := sessions.Cancel(sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

type AppendActivityRequest struct {
	Action    string `json:"action" validate:"required,oneof=join leave"`
	Timestamp string `json:"timestamp,omitempty"`
}

func AppendSessionActivity(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	var req AppendActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var timestamp time.Time
	if req.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "timestamp must be RFC3339"})
		}
	}

	entry, err := verifier.AppendActivity(sessionID, currentUserID(c), req.Action, timestamp)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

type VerifySessionRequest struct {
	Code string `json:"code,omitempty"`
}

func VerifySession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	var req VerifySessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	session, err := sessions.Get(sessionID)
	if err != nil {
		return respondError(c, err)
	}
	userID := currentUserID(c)
	if currentUserRole(c) != "admin" && userID != session.MentorID && userID != session.StudentID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	verified, err := verifier.Verify(sessionID, req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(verified)
}
