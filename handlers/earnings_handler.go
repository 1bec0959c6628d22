package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func GetEarningsSummary(c *fiber.Ctx) error {
	summary, err := earnings.Summary(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func GetAvailableBalance(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	available, err := earnings.AvailableBalance(ownerID)
	if err != nil {
		return respondError(c, err)
	}
	pending, err := earnings.PendingAmount(ownerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"available_balance": available,
		"pending_amount":    pending,
	})
}

func ListEarnings(c *fiber.Ctx) error {
	list, err := earnings.ListByOwner(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"earnings": list})
}

func GetTransactionsFeed(c *fiber.Ctx) error {
	items, err := withdrawals.Transactions(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": items})
}
