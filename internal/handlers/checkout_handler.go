package handlers

import (
	"context"
	"errors"

	"github.com/Raposo87/site-escola-surf/internal/payments"
	"github.com/Raposo87/site-escola-surf/internal/services"
	"github.com/gofiber/fiber/v2"
)

type checkoutApplicationService interface {
	CreateCheckout(ctx context.Context, input services.CreateCheckoutInput) (*payments.Session, error)
}

type sessionReader interface {
	GetSession(ctx context.Context, id string) (*payments.Session, error)
}

type CheckoutHandler struct {
	service checkoutApplicationService
	gateway sessionReader
}

func NewCheckoutHandler(service *services.CheckoutService, gateway *payments.Gateway) *CheckoutHandler {
	return &CheckoutHandler{service: service, gateway: gateway}
}

type createCheckoutRequest struct {
	Nome            string   `json:"nome"`
	Email           string   `json:"email"`
	DataAgendamento string   `json:"data_agendamento"`
	Horario         string   `json:"horario"`
	Preco           *float64 `json:"preco"`
	Descricao       string   `json:"descricao"`
}

func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req createCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	session, err := h.service.CreateCheckout(c.Context(), services.CreateCheckoutInput{
		Nome:            req.Nome,
		Email:           req.Email,
		DataAgendamento: req.DataAgendamento,
		Horario:         req.Horario,
		Preco:           req.Preco,
		Descricao:       req.Descricao,
		RequestBaseURL:  c.BaseURL(),
	})
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  validationErr.Error(),
				"campos": validationErr.Fields,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao criar sessão de pagamento"})
	}

	return c.JSON(fiber.Map{"url": session.URL, "id": session.ID})
}

// VerifyPayment is a read-through status check against the provider, used by
// the success page to confirm what the customer just paid for.
func (h *CheckoutHandler) VerifyPayment(c *fiber.Ctx) error {
	session, err := h.gateway.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao verificar pagamento"})
	}

	return c.JSON(fiber.Map{
		"status":   session.Status,
		"email":    session.Email,
		"metadata": session.Metadata,
	})
}
