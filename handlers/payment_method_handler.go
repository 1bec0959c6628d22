package handlers

import (
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddPaymentMethodRequest struct {
	Kind           string `json:"kind" validate:"required,oneof=mobile_wallet bank_account"`
	WalletProvider string `json:"wallet_provider,omitempty"`
	WalletNumber   string `json:"wallet_number,omitempty"`
	AccountName    string `json:"account_name,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	BankName       string `json:"bank_name,omitempty"`
	BranchName     string `json:"branch_name,omitempty"`
	IsDefault      bool   `json:"is_default,omitempty"`
}

func AddPaymentMethod(c *fiber.Ctx) error {
	ownerID := currentUserID(c)

	var req AddPaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	method, err := paymentMethods.Add(ownerID, services.AddPaymentMethodInput{
		Kind:           req.Kind,
		WalletProvider: req.WalletProvider,
		WalletNumber:   req.WalletNumber,
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
		BranchName:     req.BranchName,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(method)
}

func ListPaymentMethods(c *fiber.Ctx) error {
	methods, err := paymentMethods.List(currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payment_methods": methods})
}

func SetDefaultPaymentMethod(c *fiber.Ctx) error {
	methodID, err := uuid.Parse(c.Params("methodId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment method ID format"})
	}

	if err := paymentMethods.SetDefault(currentUserID(c), methodID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default payment method updated."})
}

func DeletePaymentMethod(c *fiber.Ctx) error {
	methodID, err := uuid.Parse(c.Params("methodId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment method ID format"})
	}

	if err := paymentMethods.Remove(currentUserID(c), methodID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment method removed."})
}
