package main

import (
	"chaparelay/internal/payments"
	"chaparelay/internal/ratelimiter"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// mockGateway implements payments.Gateway for handler tests
type mockGateway struct {
	InitializeFunc func(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResponse, error)
	VerifyFunc     func(ctx context.Context, txRef string) (json.RawMessage, error)

	initializeCalls int
	verifyCalls     int
}

func (m *mockGateway) InitializePayment(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResponse, error) {
	m.initializeCalls++
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, req)
	}
	return payments.PaymentResponse{TxRef: payments.NewTxRef(), CheckoutURL: "https://checkout.chapa.co/checkout/payment/test"}, nil
}

func (m *mockGateway) VerifyPayment(ctx context.Context, txRef string) (json.RawMessage, error) {
	m.verifyCalls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, txRef)
	}
	return json.RawMessage(`{"status":"success"}`), nil
}

func newTestApplication(t *testing.T, gateway payments.Gateway) *application {
	t.Helper()
	return &application{
		config: config{
			addr: ":0",
			env:  "test",
		},
		logger:  zap.NewNop().Sugar(),
		gateway: gateway,
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d", expected, actual)
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestHealthAndRoot(t *testing.T) {
	app := newTestApplication(t, &mockGateway{})
	mux := app.mount()

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/health", nil), mux)
	checkResponseCode(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	if body["status"] != "OK" || body["service"] != "Chapa Payment Gateway" {
		t.Errorf("health body = %v", body)
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Errorf("timestamp %v: %v", body["timestamp"], err)
	}

	rr = executeRequest(httptest.NewRequest(http.MethodGet, "/", nil), mux)
	checkResponseCode(t, http.StatusOK, rr.Code)
	body = decodeBody(t, rr)
	if body["status"] != "running" || body["message"] != "Chapa Payment Gateway API" {
		t.Errorf("root body = %v", body)
	}
}

func TestCloseWebview(t *testing.T) {
	app := newTestApplication(t, &mockGateway{})

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/close-webview", nil), app.mount())
	checkResponseCode(t, http.StatusOK, rr.Code)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "window.close()") {
		t.Error("page does not close the webview")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	app := newTestApplication(t, &mockGateway{})
	app.config.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}
	app.rateLimiter = ratelimiter.NewFixedWindowLimiter(2, time.Minute)
	mux := app.mount()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		checkResponseCode(t, http.StatusOK, executeRequest(req, mux).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.1:5678"
	rr := executeRequest(req, mux)
	checkResponseCode(t, http.StatusTooManyRequests, rr.Code)
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	app := newTestApplication(t, &mockGateway{})

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/nope", nil), app.mount())
	checkResponseCode(t, http.StatusNotFound, rr.Code)
	if body := decodeBody(t, rr); body["error"] == nil {
		t.Errorf("body = %v", body)
	}
}
