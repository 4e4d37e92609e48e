package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingTxRef   = errors.New("transaction reference is required")
	ErrInvalidRequest = errors.New("invalid payment request")
)

const (
	OpInitialize = "initialize"
	OpVerify     = "verify"
)

// GatewayError is a failed provider call. Payload carries the provider's
// body when it answered; otherwise Err carries the transport failure.
type GatewayError struct {
	Op         string
	StatusCode int
	Payload    []byte
	Err        error
}

// Error renders "Failed to <op> payment: <json>", where <json> is the
// provider body or, failing that, the quoted error message.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("Failed to %s payment: %s", e.Op, e.Detail())
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Detail is the provider payload (or message) serialized as JSON text.
func (e *GatewayError) Detail() string {
	if payload := bytes.TrimSpace(e.Payload); len(payload) > 0 && !isFalsyJSON(payload) {
		if json.Valid(payload) {
			var buf bytes.Buffer
			if err := json.Compact(&buf, payload); err == nil {
				return buf.String()
			}
		}
		return quoteJSON(string(payload))
	}

	msg := "unknown error"
	switch {
	case e.Err != nil:
		msg = e.Err.Error()
	case e.StatusCode != 0:
		msg = fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	return quoteJSON(msg)
}

func isFalsyJSON(b []byte) bool {
	switch string(b) {
	case `null`, `false`, `0`, `""`:
		return true
	}
	return false
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `"` + s + `"`
	}
	return strings.TrimRight(buf.String(), "\n")
}
