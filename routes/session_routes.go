package routes

import (
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/handlers"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/:sessionId", handlers.GetSession)
	sessions.Post("/:sessionId/activity", handlers.AppendSessionActivity)
	sessions.Post("/:sessionId/verify", handlers.VerifySession)
	sessions.Post("/:sessionId/refund", handlers.RequestRefund)
}
