package handlers

import (
	"errors"
	"log"
	"time"

	config "github.com/devlabsolutionlimited/poramorshok-web-sub000/configs"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

var (
	paymentMethods *services.PaymentMethodService
	earnings       *services.EarningsService
	withdrawals    *services.WithdrawalService
	sessions       *services.SessionService
	verifier       *services.VerificationService
	refunds        *services.RefundService
)

// InitServices wires the service singletons once the database connection
// exists. Policy values come from the environment so fraud thresholds and
// fee rates can be tuned without a deploy.
func InitServices(db *gorm.DB) {
	feeRate := config.ConfigFloat("PLATFORM_FEE_RATE", 0.20)
	minimumWithdrawal := config.ConfigFloat("MINIMUM_WITHDRAWAL_AMOUNT", 1000)
	policy := services.VerificationPolicy{
		MinDurationRatio: config.ConfigFloat("VERIFY_MIN_DURATION_RATIO", 0.8),
		MaxActivityGap:   time.Duration(config.ConfigInt("VERIFY_MAX_GAP_MINUTES", 5)) * time.Minute,
	}

	paymentMethods = services.NewPaymentMethodService(db)
	earnings = services.NewEarningsService(db)
	withdrawals = services.NewWithdrawalService(db, minimumWithdrawal)
	sessions = services.NewSessionService(db, feeRate)
	verifier = services.NewVerificationService(db, policy)
	refunds = services.NewRefundService(db)
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func currentUserRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}

func respondError(c *fiber.Ctx, err error) error {
	var failure *services.VerificationFailure
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &failure):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "session could not be verified",
			"reason": failure.Reason,
		})
	default:
		log.Printf("🔥 Internal error: %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
