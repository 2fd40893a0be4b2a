package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Raposo87/site-escola-surf/internal/payments"
	"github.com/Raposo87/site-escola-surf/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubCheckoutService struct {
	result    *payments.Session
	err       error
	lastInput services.CreateCheckoutInput
}

func (s *stubCheckoutService) CreateCheckout(_ context.Context, input services.CreateCheckoutInput) (*payments.Session, error) {
	s.lastInput = input
	return s.result, s.err
}

type stubSessionReader struct {
	result *payments.Session
	err    error
	lastID string
}

func (s *stubSessionReader) GetSession(_ context.Context, id string) (*payments.Session, error) {
	s.lastID = id
	return s.result, s.err
}

func TestCreateSessionReturnsCheckoutURL(t *testing.T) {
	service := &stubCheckoutService{
		result: &payments.Session{ID: "sess_1", URL: "https://checkout.stripe.com/pay/sess_1"},
	}
	handler := &CheckoutHandler{service: service}

	app := fiber.New()
	app.Post("/criar-sessao-pagamento", handler.CreateSession)

	req := httptest.NewRequest(http.MethodPost, "/criar-sessao-pagamento", strings.NewReader(`{
		"nome": "Ana",
		"email": "a@x.com",
		"data_agendamento": "2024-05-01",
		"horario": "10:00",
		"preco": 25
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if payload["url"] != "https://checkout.stripe.com/pay/sess_1" {
		t.Errorf("Expected checkout URL, got %s", payload["url"])
	}
	if payload["id"] != "sess_1" {
		t.Errorf("Expected session id, got %s", payload["id"])
	}

	if service.lastInput.Preco == nil || *service.lastInput.Preco != 25 {
		t.Errorf("Expected preco 25, got %v", service.lastInput.Preco)
	}
	if service.lastInput.RequestBaseURL == "" {
		t.Error("Expected request base URL to be forwarded")
	}
}

func TestCreateSessionReturnsMissingFields(t *testing.T) {
	service := &stubCheckoutService{
		err: &services.ValidationError{Fields: []string{"horario"}},
	}
	handler := &CheckoutHandler{service: service}

	app := fiber.New()
	app.Post("/criar-sessao-pagamento", handler.CreateSession)

	req := httptest.NewRequest(http.MethodPost, "/criar-sessao-pagamento", strings.NewReader(`{
		"nome": "Ana",
		"email": "a@x.com",
		"data_agendamento": "2024-05-01",
		"preco": 25
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	var payload struct {
		Error  string   `json:"error"`
		Campos []string `json:"campos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if len(payload.Campos) != 1 || payload.Campos[0] != "horario" {
		t.Errorf("Expected campos [horario], got %v", payload.Campos)
	}
}

func TestCreateSessionReturnsServerErrorOnProviderFailure(t *testing.T) {
	service := &stubCheckoutService{err: errors.New("stripe unavailable")}
	handler := &CheckoutHandler{service: service}

	app := fiber.New()
	app.Post("/criar-sessao-pagamento", handler.CreateSession)

	req := httptest.NewRequest(http.MethodPost, "/criar-sessao-pagamento", strings.NewReader(`{"nome":"Ana"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", resp.StatusCode)
	}
}

func TestVerifyPaymentReturnsSessionStatus(t *testing.T) {
	gateway := &stubSessionReader{
		result: &payments.Session{
			ID:     "sess_1",
			Status: "paid",
			Email:  "a@x.com",
			Metadata: map[string]string{
				"nome":    "Ana",
				"horario": "10:00",
			},
		},
	}
	handler := &CheckoutHandler{gateway: gateway}

	app := fiber.New()
	app.Get("/verificar-pagamento/:id", handler.VerifyPayment)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/verificar-pagamento/sess_1", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if gateway.lastID != "sess_1" {
		t.Errorf("Expected session id sess_1, got %s", gateway.lastID)
	}

	var payload struct {
		Status   string            `json:"status"`
		Email    string            `json:"email"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Expected JSON body, got %v", err)
	}
	if payload.Status != "paid" || payload.Email != "a@x.com" {
		t.Errorf("Expected paid session for a@x.com, got %+v", payload)
	}
	if payload.Metadata["nome"] != "Ana" {
		t.Errorf("Expected metadata passthrough, got %v", payload.Metadata)
	}
}

func TestVerifyPaymentReturnsServerErrorOnProviderFailure(t *testing.T) {
	gateway := &stubSessionReader{err: errors.New("stripe unavailable")}
	handler := &CheckoutHandler{gateway: gateway}

	app := fiber.New()
	app.Get("/verificar-pagamento/:id", handler.VerifyPayment)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/verificar-pagamento/sess_1", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", resp.StatusCode)
	}
}
