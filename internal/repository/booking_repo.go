package repository

import (
	"context"
	"errors"

	"github.com/Raposo87/site-escola-surf/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CreateBookingInput struct {
	Nome            string
	Email           string
	DataAgendamento string
	Horario         string
	ValorPago       float64
	StripeSessionID *string
	Status          string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	query := `
		INSERT INTO agendamentos (nome, email, data_agendamento, horario, valor_pago, stripe_session_id, status)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, nome, email, data_agendamento::text, horario, valor_pago, stripe_session_id, status, created_at
	`

	var booking models.Booking
	err := r.db.QueryRow(
		ctx,
		query,
		input.Nome,
		input.Email,
		input.DataAgendamento,
		input.Horario,
		input.ValorPago,
		input.StripeSessionID,
		input.Status,
	).Scan(
		&booking.ID,
		&booking.Nome,
		&booking.Email,
		&booking.DataAgendamento,
		&booking.Horario,
		&booking.ValorPago,
		&booking.StripeSessionID,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	query := `
		SELECT id, nome, email, data_agendamento::text, horario, valor_pago, stripe_session_id, status, created_at
		FROM agendamentos
		ORDER BY data_agendamento ASC, horario ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.Nome,
			&booking.Email,
			&booking.DataAgendamento,
			&booking.Horario,
			&booking.ValorPago,
			&booking.StripeSessionID,
			&booking.Status,
			&booking.CreatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*models.Booking, error) {
	query := `
		SELECT id, nome, email, data_agendamento::text, horario, valor_pago, stripe_session_id, status, created_at
		FROM agendamentos
		WHERE stripe_session_id = $1
	`

	var booking models.Booking
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&booking.ID,
		&booking.Nome,
		&booking.Email,
		&booking.DataAgendamento,
		&booking.Horario,
		&booking.ValorPago,
		&booking.StripeSessionID,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// IsUniqueViolation reports whether err is the store rejecting a duplicate
// stripe_session_id. The reconcile path relies on this to collapse concurrent
// deliveries of the same checkout event.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
