package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Raposo87/site-escola-surf/internal/models"
	"github.com/Raposo87/site-escola-surf/internal/payments"
	"github.com/Raposo87/site-escola-surf/internal/repository"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type eventParser interface {
	ParseEvent(payload []byte, sigHeader string) (*payments.Event, error)
}

type bookingStore interface {
	Create(ctx context.Context, input repository.CreateBookingInput) (*models.Booking, error)
	GetByStripeSessionID(ctx context.Context, sessionID string) (*models.Booking, error)
}

type confirmationSender interface {
	SendBookingConfirmation(booking *models.Booking) error
}

// ReconcileService turns checkout.session.completed webhooks into booking
// rows. Stripe delivers at least once, so the same event may arrive again at
// any time; the stripe_session_id unique constraint is what guarantees a
// single row, and the lookup before insert only skips redundant work.
type ReconcileService struct {
	gateway  eventParser
	bookings bookingStore
	mailer   confirmationSender
	logger   *zap.Logger
}

func NewReconcileService(
	gateway eventParser,
	bookings bookingStore,
	mailer confirmationSender,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		gateway:  gateway,
		bookings: bookings,
		mailer:   mailer,
		logger:   logger,
	}
}

// HandleEvent processes one raw webhook delivery. A nil return means the
// caller must acknowledge with success; signature and payload errors map to a
// client error so Stripe stops retrying a delivery that can never succeed,
// and store errors map to a server error so Stripe retries it.
func (s *ReconcileService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.gateway.ParseEvent(payload, sigHeader)
	if err != nil {
		return err
	}

	if !event.Handled {
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}

	session := event.Session
	booking, err := s.commit(ctx, session)
	if err != nil {
		return err
	}
	if booking == nil {
		// Duplicate delivery; the first one already notified.
		return nil
	}

	s.notify(booking)
	return nil
}

func (s *ReconcileService) commit(ctx context.Context, session *payments.CompletedSession) (*models.Booking, error) {
	nome := session.Metadata["nome"]
	dataAgendamento := session.Metadata["data_agendamento"]
	horario := session.Metadata["horario"]
	email := session.Metadata["email"]
	if email == "" {
		email = session.Email
	}
	if nome == "" || email == "" || dataAgendamento == "" || horario == "" {
		return nil, fmt.Errorf("%w: booking metadata incomplete for session %s",
			payments.ErrMalformedEvent, session.ID)
	}

	existing, err := s.bookings.GetByStripeSessionID(ctx, session.ID)
	if err == nil {
		s.logger.Info("duplicate webhook delivery, booking already exists",
			zap.String("session_id", session.ID),
			zap.Int64("booking_id", existing.ID),
		)
		return nil, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	sessionID := session.ID
	booking, err := s.bookings.Create(ctx, repository.CreateBookingInput{
		Nome:            nome,
		Email:           email,
		DataAgendamento: dataAgendamento,
		Horario:         horario,
		ValorPago:       float64(session.AmountTotal) / 100,
		StripeSessionID: &sessionID,
		Status:          models.BookingStatusPaid,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost a race against a concurrent delivery of the same event.
			s.logger.Info("concurrent webhook delivery, booking already inserted",
				zap.String("session_id", session.ID),
			)
			return nil, nil
		}
		return nil, err
	}

	s.logger.Info("booking committed after payment",
		zap.String("session_id", session.ID),
		zap.Int64("booking_id", booking.ID),
		zap.Float64("valor_pago", booking.ValorPago),
	)
	return booking, nil
}

// notify sends the confirmation email without blocking the webhook response.
// The booking is already durable, so a failed send is only logged.
func (s *ReconcileService) notify(booking *models.Booking) {
	if s.mailer == nil {
		return
	}
	go func() {
		if err := s.mailer.SendBookingConfirmation(booking); err != nil {
			s.logger.Error("confirmation email failed",
				zap.Int64("booking_id", booking.ID),
				zap.String("email", booking.Email),
				zap.Error(err),
			)
		}
	}()
}
