package main

import (
	"chaparelay/internal/payments"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type webhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// chapaWebhookHandler godoc
//
//	@Summary		Chapa webhook
//	@Description	Receives Chapa notifications, re-verifies the transaction and always acknowledges.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	webhookAck
//	@Failure		500	{object}	error	"Unexpected error"
//	@Router			/api/webhook/chapa [post]
func (app *application) chapaWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_578)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		app.logger.Errorw("webhook body read failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "An error occurred while processing the webhook")
		return
	}

	payload := parseWebhookPayload(body)
	app.logger.Infow("webhook received", "payload", payload)

	txRef, status := payload["tx_ref"], payload["status"]
	if txRef != "" && status != "" {
		// Verification only feeds the logs; the provider gets an ack either way
		// so it does not redeliver.
		verification, err := app.gateway.VerifyPayment(ctx, txRef)
		if err != nil {
			app.logger.Errorw("webhook verification failed", "tx_ref", txRef, "status", status, "error", err)
		} else {
			app.logger.Infow("webhook verified", "tx_ref", txRef, "status", status, "verification", string(verification))
			if status == "success" {
				app.logger.Infow("payment successful", "tx_ref", txRef)
			}
		}
	}

	writeJSON(w, http.StatusOK, webhookAck{
		Success: true,
		Message: "Webhook received successfully",
	})
}

// parseWebhookPayload reads a JSON object, falling back to form encoding.
// Values are kept in string form; falsy values are dropped.
func parseWebhookPayload(body []byte) map[string]string {
	payload := make(map[string]string)

	var fields map[string]payments.Field
	if err := json.Unmarshal(body, &fields); err == nil {
		for k, v := range fields {
			if v != "" {
				payload[k] = v.String()
			}
		}
		return payload
	}

	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return payload
	}
	return firstValues(values)
}
