package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed event payload")
)

// EventCheckoutCompleted is the only event kind that creates a booking; every
// other kind is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

type SessionInput struct {
	Nome            string
	Email           string
	DataAgendamento string
	Horario         string
	Descricao       string
	UnitAmount      int64
	SuccessURL      string
	CancelURL       string
}

type Session struct {
	ID          string
	URL         string
	Status      string
	Email       string
	AmountTotal int64
	Currency    string
	Metadata    map[string]string
}

// CompletedSession carries the fields the reconcile path needs from a
// checkout.session.completed event: the dedup key, the authoritative paid
// amount, and the correlation metadata written at session creation.
type CompletedSession struct {
	ID          string
	AmountTotal int64
	Currency    string
	Email       string
	Metadata    map[string]string
}

type Event struct {
	Type    string
	Handled bool
	Session *CompletedSession
}

type Gateway struct {
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	stripe.Key = secretKey
	return &Gateway{webhookSecret: webhookSecret}
}

func (g *Gateway) CreateSession(ctx context.Context, input SessionInput) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(input.Email),
		ClientReferenceID:  stripe.String(uuid.New().String()),
		SuccessURL:         stripe.String(input.SuccessURL),
		CancelURL:          stripe.String(input.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(input.Nome),
						Description: stripe.String(input.Descricao),
					},
					UnitAmount: stripe.Int64(input.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	// Stripe metadata only carries flat strings. Everything needed to rebuild
	// the booking at reconciliation time must be in here; the paid amount is
	// deliberately absent because amount_total on the event is authoritative.
	params.AddMetadata("nome", input.Nome)
	params.AddMetadata("email", input.Email)
	params.AddMetadata("data_agendamento", input.DataAgendamento)
	params.AddMetadata("horario", input.Horario)
	params.AddMetadata("descricao", input.Descricao)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &Session{
		ID:       s.ID,
		URL:      s.URL,
		Status:   string(s.PaymentStatus),
		Email:    input.Email,
		Metadata: s.Metadata,
	}, nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get checkout session: %w", err)
	}

	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}

	return &Session{
		ID:          s.ID,
		URL:         s.URL,
		Status:      string(s.PaymentStatus),
		Email:       email,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
		Metadata:    s.Metadata,
	}, nil
}

// ParseEvent verifies the signature over the raw, untransformed body and
// decodes the event. The payload must not have been re-encoded upstream or
// verification fails.
func (g *Gateway) ParseEvent(payload []byte, sigHeader string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	if eventType != EventCheckoutCompleted {
		return &Event{Type: eventType}, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: session id missing", ErrMalformedEvent)
	}

	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}

	return &Event{
		Type:    eventType,
		Handled: true,
		Session: &CompletedSession{
			ID:          s.ID,
			AmountTotal: s.AmountTotal,
			Currency:    string(s.Currency),
			Email:       email,
			Metadata:    s.Metadata,
		},
	}, nil
}
