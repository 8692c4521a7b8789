package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Events    *EventHandler
	JWTSecret string
}

// Router registra los webhooks de eventos. Todos protegidos con Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	events := api.Group("/events", AuthMiddleware(deps.JWTSecret))
	events.Post("/orders", deps.Events.OrderCreated)
	events.Post("/refunds", deps.Events.RefundIssued)
	events.Post("/settlements", deps.Events.SettlementReceived)
}
