package handlers

import (
	"fmt"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/database"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RequestWithdrawalRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID string  `json:"payment_method_id" validate:"required,uuid"`
}

func RequestWithdrawal(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	var req RequestWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	methodID, _ := uuid.Parse(req.PaymentMethodID)

	withdrawal, err := withdrawals.Request(ownerID, req.Amount, methodID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(withdrawal)
}

func ListMyWithdrawals(c *fiber.Ctx) error {
	list, err := withdrawals.ListByOwner(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"withdrawals": list})
}

func CancelWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := uuid.Parse(c.Params("withdrawalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID format"})
	}

	withdrawal, err := withdrawals.Cancel(currentUserID(c), withdrawalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(withdrawal)
}

type TransitionWithdrawalRequest struct {
	Status         string `json:"status" validate:"required"`
	TransactionRef string `json:"transaction_ref,omitempty"`
}

func ListWithdrawals(c *fiber.Ctx) error {
	list, err := withdrawals.ListAll(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"withdrawals": list})
}

func ProcessWithdrawal(c *fiber.Ctx) error {
	withdrawalID, err := uuid.Parse(c.Params("withdrawalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid withdrawal ID format"})
	}

	var req TransitionWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	withdrawal, err := withdrawals.Transition(withdrawalID, req.Status, req.TransactionRef)
	if err != nil {
		return respondError(c, err)
	}

	var owner models.User
	if err := database.DB.First(&owner, "id = ?", withdrawal.OwnerID).Error; err == nil {
		switch withdrawal.Status {
		case models.WithdrawalStatusCompleted:
			go notifications.SendEmail(owner.FullName, owner.Email,
				"Your Withdrawal Has Been Processed",
				fmt.Sprintf("<h1>Withdrawal Processed</h1><p>Hello %s,</p><p>Your withdrawal of %.2f BDT has been sent to your payout account. Reference: %s</p>", owner.FullName, withdrawal.Amount, req.TransactionRef))
		case models.WithdrawalStatusFailed:
			go notifications.SendEmail(owner.FullName, owner.Email,
				"Update on Your Withdrawal Request",
				fmt.Sprintf("<h1>Withdrawal Failed</h1><p>Hello %s,</p><p>Your withdrawal of %.2f BDT could not be processed. The funds remain in your balance.</p>", owner.FullName, withdrawal.Amount))
		}
	}

	return c.JSON(withdrawal)
}
