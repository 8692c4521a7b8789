package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nav-gateway/internal/application/dto"
	"github.com/jhoicas/nav-gateway/internal/application/ordersync"
	"github.com/jhoicas/nav-gateway/internal/application/settlement"
	"github.com/jhoicas/nav-gateway/internal/domain"
	"github.com/jhoicas/nav-gateway/internal/domain/event"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// EventHandler recibe los eventos de negocio del bus upstream y los despacha
// a los casos de uso. Cualquier error fatal aborta la operación: el bus debe
// reintentar o escalar (las creaciones hacen su propia comprobación de
// existencia, así que reentregar un evento es seguro).
type EventHandler struct {
	orders      *ordersync.UseCase
	settlements *settlement.UseCase
	log         *logger.Logger
}

// NewEventHandler construye el handler.
func NewEventHandler(orders *ordersync.UseCase, settlements *settlement.UseCase, log *logger.Logger) *EventHandler {
	return &EventHandler{orders: orders, settlements: settlements, log: log}
}

// OrderCreated POST /api/events/orders
func (h *EventHandler) OrderCreated(c *fiber.Ctx) error {
	var evt event.OrderCreated
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: err.Error()})
	}
	if evt.OrderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: "order_number requerido"})
	}

	created, err := h.orders.HandleOrderCreated(c.UserContext(), evt)
	if err != nil {
		return h.gatewayError(c, err)
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(dto.EventResponse{Status: "skipped"})
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.EventResponse{Status: "created"})
}

// RefundIssued POST /api/events/refunds
func (h *EventHandler) RefundIssued(c *fiber.Ctx) error {
	var evt event.RefundIssued
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: err.Error()})
	}
	if evt.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: "reference requerido"})
	}

	number, created, err := h.orders.HandleRefundIssued(c.UserContext(), evt)
	if err != nil {
		return h.gatewayError(c, err)
	}
	status := "created"
	code := fiber.StatusAccepted
	if !created {
		status = "skipped"
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(dto.EventResponse{Status: status, CreditMemoNumber: number})
}

// SettlementReceived POST /api/events/settlements
func (h *EventHandler) SettlementReceived(c *fiber.Ctx) error {
	var evt event.SettlementReceived
	if err := c.BodyParser(&evt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAYLOAD", Message: err.Error()})
	}
	if err := h.settlements.HandleSettlement(c.UserContext(), evt); err != nil {
		return h.gatewayError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.EventResponse{Status: "uploaded"})
}

// gatewayError mapea la taxonomía de errores del gateway a estados HTTP.
func (h *EventHandler) gatewayError(c *fiber.Ctx, err error) error {
	h.log.Error().Err(err).Str("source", GetSource(c)).Msg("evento rechazado")

	var transport *domain.TransportError
	if errors.As(err, &transport) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "NAV_TRANSPORT", Message: err.Error()})
	}
	var ambiguous *domain.AmbiguousResultError
	if errors.As(err, &ambiguous) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NAV_AMBIGUOUS", Message: err.Error()})
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NAV_VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "NAV_ERROR", Message: err.Error()})
}
