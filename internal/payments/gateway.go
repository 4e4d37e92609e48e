package payments

import (
	"context"
	"encoding/json"
)

// Gateway defines the calls the relay makes against a payment provider.
type Gateway interface {
	InitializePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	VerifyPayment(ctx context.Context, txRef string) (json.RawMessage, error)
}
