package routes

import (
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/handlers"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Post("/sessions", handlers.RegisterSession)
	admin.Post("/sessions/:sessionId/cancel", handlers.CancelSession)

	admin.Get("/withdrawals", handlers.ListWithdrawals)
	admin.Post("/withdrawals/:withdrawalId/transition", handlers.ProcessWithdrawal)

	admin.Get("/reconciliations", handlers.ListReconciliations)
	admin.Post("/reconciliations/:reconciliationId/resolve", handlers.ResolveReconciliation)
}
