package routes

import (
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/handlers"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	mentor := api.Group("/mentor", middleware.Protected(), middleware.MentorRequired())

	paymentMethods := mentor.Group("/payment-methods")
	paymentMethods.Post("", handlers.AddPaymentMethod)
	paymentMethods.Get("", handlers.ListPaymentMethods)
	paymentMethods.Put("/:methodId/default", handlers.SetDefaultPaymentMethod)
	paymentMethods.Delete("/:methodId", handlers.DeletePaymentMethod)

	mentor.Get("/earnings", handlers.ListEarnings)
	mentor.Get("/earnings/summary", handlers.GetEarningsSummary)
	mentor.Get("/balance", handlers.GetAvailableBalance)
	mentor.Get("/transactions", handlers.GetTransactionsFeed)

	withdrawals := mentor.Group("/withdrawals")
	withdrawals.Post("/request", handlers.RequestWithdrawal)
	withdrawals.Get("", handlers.ListMyWithdrawals)
	withdrawals.Post("/:withdrawalId/cancel", handlers.CancelWithdrawal)
}
