package routes

import (
	"github.com/Raposo87/site-escola-surf/internal/config"
	"github.com/Raposo87/site-escola-surf/internal/handlers"
	"github.com/Raposo87/site-escola-surf/internal/mailer"
	"github.com/Raposo87/site-escola-surf/internal/payments"
	"github.com/Raposo87/site-escola-surf/internal/repository"
	"github.com/Raposo87/site-escola-surf/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, log *zap.Logger) {
	bookingRepo := repository.NewBookingRepository(db)
	gateway := payments.NewGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	checkoutService := services.NewCheckoutService(gateway, cfg.FrontendURL)

	var reconcileService *services.ReconcileService
	if cfg.EmailEnabled() {
		smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
		reconcileService = services.NewReconcileService(gateway, bookingRepo, smtpMailer, log)
	} else {
		log.Warn("SMTP not configured, confirmation emails disabled")
		reconcileService = services.NewReconcileService(gateway, bookingRepo, nil, log)
	}

	bookingHandler := handlers.NewBookingHandler(bookingRepo)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, gateway)
	webhookHandler := handlers.NewWebhookHandler(reconcileService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API de agendamento funcionando!")
	})

	app.Post("/agendamentos", bookingHandler.CreateBooking)
	app.Get("/agendamentos", bookingHandler.ListBookings)
	app.Post("/criar-sessao-pagamento", checkoutHandler.CreateSession)
	app.Get("/verificar-pagamento/:id", checkoutHandler.VerifyPayment)
	app.Post("/webhook", webhookHandler.HandleWebhook)
}
