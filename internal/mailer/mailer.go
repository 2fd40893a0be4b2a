package mailer

import (
	"fmt"

	"github.com/Raposo87/site-escola-surf/internal/models"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendBookingConfirmation(booking *models.Booking) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", booking.Email)
	msg.SetHeader("Subject", "Confirmação de agendamento - Escola de Surf")
	msg.SetBody("text/html", confirmationBody(booking))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send confirmation: %w", err)
	}
	return nil
}

func confirmationBody(booking *models.Booking) string {
	return fmt.Sprintf(
		`<h2>Olá, %s!</h2>
<p>Seu pagamento foi confirmado e sua aula está agendada.</p>
<ul>
  <li><strong>Data:</strong> %s</li>
  <li><strong>Horário:</strong> %s</li>
  <li><strong>Valor pago:</strong> €%.2f</li>
</ul>
<p>Até breve!</p>`,
		booking.Nome,
		booking.DataAgendamento,
		booking.Horario,
		booking.ValorPago,
	)
}
