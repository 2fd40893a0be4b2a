package handlers

import (
	"context"

	"github.com/Raposo87/site-escola-surf/internal/models"
	"github.com/Raposo87/site-escola-surf/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type bookingRepository interface {
	Create(ctx context.Context, input repository.CreateBookingInput) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
}

type BookingHandler struct {
	repo bookingRepository
}

func NewBookingHandler(repo *repository.BookingRepository) *BookingHandler {
	return &BookingHandler{repo: repo}
}

type createBookingRequest struct {
	Nome            string `json:"nome"`
	Email           string `json:"email"`
	DataAgendamento string `json:"data_agendamento"`
	Horario         string `json:"horario"`
}

// CreateBooking inserts a booking directly, without payment. Used for manual
// and test bookings; paid bookings only ever come in through the webhook.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	booking, err := h.repo.Create(c.Context(), repository.CreateBookingInput{
		Nome:            req.Nome,
		Email:           req.Email,
		DataAgendamento: req.DataAgendamento,
		Horario:         req.Horario,
		Status:          models.BookingStatusPending,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao criar agendamento"})
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	bookings, err := h.repo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao buscar agendamentos"})
	}

	return c.JSON(bookings)
}
