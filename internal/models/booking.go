package models

import "time"

const (
	BookingStatusPending = "pendente"
	BookingStatusPaid    = "pago"
)

type Booking struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	Email           string    `json:"email"`
	DataAgendamento string    `json:"data_agendamento"`
	Horario         string    `json:"horario"`
	ValorPago       float64   `json:"valor_pago"`
	StripeSessionID *string   `json:"stripe_session_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
