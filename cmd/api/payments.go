package main

import (
	"chaparelay/internal/payments"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	errMissingPaymentFields = errors.New("Missing required fields: amount, email, firstName, lastName, plan")
	errMissingTxRef         = errors.New("Transaction reference is required")
)

type paymentEnvelope struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    payments.PaymentResponse `json:"data"`
}

type verifyEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// initializePaymentHandler godoc
//
//	@Summary		Initialize payment
//	@Description	Starts a Chapa checkout and returns its checkout_url and tx_ref.
//	@Tags			payments
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			payload	body		payments.PaymentRequest	true	"Payment payload"
//	@Success		200		{object}	paymentEnvelope
//	@Failure		400		{object}	error	"Missing required fields"
//	@Failure		500		{object}	error	"Provider error"
//	@Router			/api/payment [post]
func (app *application) initializePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload payments.PaymentRequest
	if isFormRequest(r) {
		form, err := readForm(w, r)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		payload = paymentRequestFromForm(form)
	} else if err := readJSON(w, r, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errMissingPaymentFields)
		return
	}

	resp, err := app.gateway.InitializePayment(r.Context(), payload)
	if err != nil {
		app.internalServerError(w, r, err, "An error occurred while processing the payment")
		return
	}

	app.logger.Infow("payment initialized", "tx_ref", resp.TxRef, "plan", payload.Plan.String())

	writeJSON(w, http.StatusOK, paymentEnvelope{
		Success: true,
		Message: "Payment initialized successfully",
		Data:    resp,
	})
}

func paymentRequestFromForm(form map[string]string) payments.PaymentRequest {
	return payments.PaymentRequest{
		Amount:    payments.Field(form["amount"]),
		Email:     payments.Field(form["email"]),
		FirstName: payments.Field(form["firstName"]),
		LastName:  payments.Field(form["lastName"]),
		Plan:      payments.Field(form["plan"]),
	}
}

// verifyPaymentHandler godoc
//
//	@Summary		Verify payment
//	@Description	Looks up a transaction at Chapa and returns the provider payload unchanged.
//	@Tags			payments
//	@Produce		json
//	@Param			tx_ref	path		string	true	"Transaction reference"
//	@Success		200		{object}	verifyEnvelope
//	@Failure		400		{object}	error	"Transaction reference is required"
//	@Failure		500		{object}	error	"Provider error"
//	@Router			/api/verify/{tx_ref} [get]
func (app *application) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	txRef := strings.TrimSpace(chi.URLParam(r, "tx_ref"))
	if txRef == "" {
		app.badRequestResponse(w, r, errMissingTxRef)
		return
	}

	verification, err := app.gateway.VerifyPayment(r.Context(), txRef)
	if err != nil {
		app.internalServerError(w, r, err, "An error occurred while verifying the payment")
		return
	}

	writeJSON(w, http.StatusOK, verifyEnvelope{Success: true, Data: verification})
}
