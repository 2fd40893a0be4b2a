package handlers

import (
	"context"
	"errors"

	"github.com/Raposo87/site-escola-surf/internal/payments"
	"github.com/Raposo87/site-escola-surf/internal/services"
	"github.com/gofiber/fiber/v2"
)

type webhookProcessor interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) error
}

type WebhookHandler struct {
	service webhookProcessor
}

func NewWebhookHandler(service *services.ReconcileService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// HandleWebhook is the reconciliation entry point. c.Body() hands over the
// raw request bytes; nothing may re-encode them before signature verification.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	err := h.service.HandleEvent(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
		case errors.Is(err, payments.ErrMalformedEvent):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed event payload"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao processar webhook"})
		}
	}

	return c.JSON(fiber.Map{"received": true})
}
