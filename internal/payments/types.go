package payments

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Currency is the only currency the provider is asked to charge in.
const Currency = "ETB"

// PaymentRequest is what callers post to initialize a checkout.
// Presence is the only thing checked: a zero value counts as missing.
type PaymentRequest struct {
	Amount    Field `json:"amount" validate:"required"`
	Email     Field `json:"email" validate:"required"`
	FirstName Field `json:"firstName" validate:"required"`
	LastName  Field `json:"lastName" validate:"required"`
	Plan      Field `json:"plan" validate:"required"`
}

// Field is a loosely typed request value held in the string form sent to
// the provider. false, 0, "" and null decode to the empty Field; other
// scalars are rendered the way JavaScript's String() renders them, and
// objects or arrays keep their compact JSON text.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*f = ""
	case bytes.Equal(b, []byte("true")):
		*f = "true"
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		if n == 0 {
			*f = ""
			return nil
		}
		*f = Field(formatNumber(n))
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*f = Field(buf.String())
	}
	return nil
}

func (f Field) String() string { return string(f) }

// formatNumber renders n like JavaScript's Number#toString: plain decimal
// in [1e-6, 1e21), exponent form outside it ("1e+21", "1.5e-7").
func formatNumber(n float64) string {
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// PaymentResponse is the provider's initialize body with the generated
// reference and the checkout link lifted to the top level.
type PaymentResponse struct {
	TxRef       string
	CheckoutURL string
	// Provider is the provider body, key by key. Its keys win over ours
	// when both are present.
	Provider map[string]json.RawMessage
}

func (p PaymentResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Provider)+3)
	out["success"] = true
	out["tx_ref"] = p.TxRef
	if p.CheckoutURL != "" {
		out["checkout_url"] = p.CheckoutURL
	}
	for k, v := range p.Provider {
		out[k] = v
	}
	return json.Marshal(out)
}

type initializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
}
