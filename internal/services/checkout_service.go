package services

import (
	"context"
	"math"
	"strings"

	"github.com/Raposo87/site-escola-surf/internal/payments"
)

const defaultDescricao = "Aula de surf"

// ValidationError lists the request fields that were missing or invalid, by
// their wire names. No provider call is made when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "campos obrigatórios ausentes ou inválidos: " + strings.Join(e.Fields, ", ")
}

type checkoutGateway interface {
	CreateSession(ctx context.Context, input payments.SessionInput) (*payments.Session, error)
}

type CheckoutService struct {
	gateway     checkoutGateway
	frontendURL string
}

func NewCheckoutService(gateway checkoutGateway, frontendURL string) *CheckoutService {
	return &CheckoutService{
		gateway:     gateway,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

type CreateCheckoutInput struct {
	Nome            string
	Email           string
	DataAgendamento string
	Horario         string
	Preco           *float64
	Descricao       string
	// RequestBaseURL is the scheme+host of the inbound request, used for the
	// redirect URLs when no FRONTEND_URL is configured.
	RequestBaseURL string
}

func (s *CheckoutService) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (*payments.Session, error) {
	fields := make([]string, 0)
	if strings.TrimSpace(input.Nome) == "" {
		fields = append(fields, "nome")
	}
	if strings.TrimSpace(input.Email) == "" {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(input.DataAgendamento) == "" {
		fields = append(fields, "data_agendamento")
	}
	if strings.TrimSpace(input.Horario) == "" {
		fields = append(fields, "horario")
	}
	if input.Preco == nil || *input.Preco < 0 {
		fields = append(fields, "preco")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	descricao := strings.TrimSpace(input.Descricao)
	if descricao == "" {
		descricao = defaultDescricao
	}

	base := s.frontendURL
	if base == "" {
		base = strings.TrimRight(input.RequestBaseURL, "/")
	}

	return s.gateway.CreateSession(ctx, payments.SessionInput{
		Nome:            input.Nome,
		Email:           input.Email,
		DataAgendamento: input.DataAgendamento,
		Horario:         input.Horario,
		Descricao:       descricao,
		UnitAmount:      int64(math.Round(*input.Preco * 100)),
		SuccessURL:      base + "/sucesso.html",
		CancelURL:       base + "/cancelado.html",
	})
}
