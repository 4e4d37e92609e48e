package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.chapa.co/v1"
	DefaultCallbackURL = "https://api.ethiotechleaders.com/api/webhook/chapa"
	DefaultReturnURL   = "https://api.ethiotechleaders.com/close-webview"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ChapaConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	ReturnURL   string
}

// ChapaClient talks to the Chapa REST API with a bearer secret key.
// No timeout is set on the client: a call is bounded only by ctx.
type ChapaClient struct {
	callbackURL string
	returnURL   string
	client      *resty.Client
	logger      *zap.SugaredLogger
	newTxRef    func() string
}

func NewChapaClient(cfg ChapaConfig, logger *zap.SugaredLogger) *ChapaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = DefaultCallbackURL
	}
	if cfg.ReturnURL == "" {
		cfg.ReturnURL = DefaultReturnURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json")

	return &ChapaClient{
		callbackURL: cfg.CallbackURL,
		returnURL:   cfg.ReturnURL,
		client:      client,
		logger:      logger,
		newTxRef:    NewTxRef,
	}
}

// InitializePayment opens a hosted checkout for req under a fresh tx_ref.
func (c *ChapaClient) InitializePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	if err := validate.Struct(req); err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	body := initializeRequest{
		Amount:      req.Amount.String(),
		Currency:    Currency,
		Email:       req.Email.String(),
		FirstName:   req.FirstName.String(),
		LastName:    req.LastName.String(),
		TxRef:       c.newTxRef(),
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
	}

	c.logger.Infow("sending initialize request to chapa",
		"tx_ref", body.TxRef,
		"amount", body.Amount,
		"currency", body.Currency,
		"email", body.Email,
		"plan", req.Plan.String(),
		"return_url", body.ReturnURL,
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/transaction/initialize")
	if err != nil {
		return PaymentResponse{}, c.fail(OpInitialize, &GatewayError{Op: OpInitialize, Err: err})
	}
	if !resp.IsSuccess() {
		return PaymentResponse{}, c.fail(OpInitialize, &GatewayError{
			Op:         OpInitialize,
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
		})
	}

	var provider map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &provider); err != nil {
		return PaymentResponse{}, c.fail(OpInitialize, &GatewayError{Op: OpInitialize, Err: fmt.Errorf("decode response: %w", err)})
	}

	data, ok := provider["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return PaymentResponse{}, c.fail(OpInitialize, &GatewayError{Op: OpInitialize, Err: errors.New("response has no data")})
	}
	var link struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := json.Unmarshal(data, &link); err != nil {
		return PaymentResponse{}, c.fail(OpInitialize, &GatewayError{Op: OpInitialize, Err: fmt.Errorf("decode response data: %w", err)})
	}

	c.logger.Infow("chapa initialize response", "tx_ref", body.TxRef, "status", resp.StatusCode(), "checkout_url", link.CheckoutURL)

	return PaymentResponse{
		TxRef:       body.TxRef,
		CheckoutURL: link.CheckoutURL,
		Provider:    provider,
	}, nil
}

// VerifyPayment looks up txRef and returns the provider body untouched.
func (c *ChapaClient) VerifyPayment(ctx context.Context, txRef string) (json.RawMessage, error) {
	if strings.TrimSpace(txRef) == "" {
		return nil, ErrMissingTxRef
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("tx_ref", txRef).
		Get("/transaction/verify/{tx_ref}")
	if err != nil {
		return nil, c.fail(OpVerify, &GatewayError{Op: OpVerify, Err: err})
	}
	if !resp.IsSuccess() {
		return nil, c.fail(OpVerify, &GatewayError{
			Op:         OpVerify,
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
		})
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		// non-JSON bodies are passed on as a JSON string
		quoted, err := json.Marshal(string(raw))
		if err != nil {
			return nil, c.fail(OpVerify, &GatewayError{Op: OpVerify, Err: err})
		}
		return quoted, nil
	}
	return json.RawMessage(raw), nil
}

func (c *ChapaClient) fail(op string, err *GatewayError) error {
	c.logger.Errorw("chapa "+op+" failed", "status", err.StatusCode, "error", err.Detail())
	return err
}
