package payments

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Field
	}{
		{`100`, "100"},
		{`100.5`, "100.5"},
		{`"250"`, "250"},
		{`"0"`, "0"},
		{`0`, ""},
		{`""`, ""},
		{`null`, ""},
		{`false`, ""},
		{`true`, "true"},
		{`1e21`, "1e+21"},
		{`123456789012345680000`, "123456789012345680000"},
		{`1e-7`, "1e-7"},
		{`1.5e-7`, "1.5e-7"},
		{`0.000001`, "0.000001"},
		{`-2.5`, "-2.5"},
		{`{ "value": 1 }`, `{"value":1}`},
	}

	for _, tt := range tests {
		var req PaymentRequest
		if err := json.Unmarshal([]byte(`{"amount":`+tt.in+`}`), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if req.Amount != tt.want {
			t.Errorf("amount %s decoded to %q, want %q", tt.in, req.Amount, tt.want)
		}
	}
}

func TestFieldFalsyValuesAreEmpty(t *testing.T) {
	for _, field := range []string{"email", "firstName", "lastName", "plan"} {
		for _, falsy := range []string{`false`, `0`, `""`, `null`} {
			var req PaymentRequest
			if err := json.Unmarshal([]byte(`{"`+field+`":`+falsy+`}`), &req); err != nil {
				t.Fatalf("%s=%s: %v", field, falsy, err)
			}
			if req.Email != "" || req.FirstName != "" || req.LastName != "" || req.Plan != "" {
				t.Errorf("%s=%s decoded to %+v", field, falsy, req)
			}
		}
	}
}

func TestFieldScalarsAreStringified(t *testing.T) {
	var req PaymentRequest
	if err := json.Unmarshal([]byte(`{"firstName":123,"lastName":true,"plan":"Basic"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.FirstName != "123" || req.LastName != "true" || req.Plan != "Basic" {
		t.Errorf("got %+v", req)
	}
}

func TestPaymentResponseProviderKeysWin(t *testing.T) {
	resp := PaymentResponse{
		TxRef:       "txn_1_1",
		CheckoutURL: "https://checkout.example/1",
		Provider: map[string]json.RawMessage{
			"status": json.RawMessage(`"success"`),
			"tx_ref": json.RawMessage(`"from-provider"`),
		},
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["tx_ref"] != "from-provider" {
		t.Errorf("tx_ref = %v", got["tx_ref"])
	}
	if got["success"] != true || got["status"] != "success" {
		t.Errorf("got %v", got)
	}
}
