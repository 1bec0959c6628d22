package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RequestRefundRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func RequestRefund(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	var req RequestRefundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := refunds.RequestRefund(sessionID, currentUserID(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(payment)
}

func ListReconciliations(c *fiber.Ctx) error {
	entries, err := refunds.ListReconciliations(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reconciliations": entries})
}

func ResolveReconciliation(c *fiber.Ctx) error {
	reconciliationID, err := uuid.Parse(c.Params("reconciliationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid reconciliation ID format"})
	}

	entry, err := refunds.ResolveReconciliation(reconciliationID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
