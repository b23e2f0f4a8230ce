package entity

import (
	"bytes"
	"encoding/json"
)

// PaymentIntent is the caller's input to a payment initiation.
// Amount and Email are required; Currency falls back to the merchant default.
type PaymentIntent struct {
	Amount   string
	Currency string
	Email    string
}

// UnmarshalJSON accepts the amount both as a JSON string and as a JSON
// number, coercing either to its string form.
func (p *PaymentIntent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Currency string          `json:"currency"`
		Email    string          `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Currency = raw.Currency
	p.Email = raw.Email
	p.Amount = ""
	value := bytes.TrimSpace(raw.Amount)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil
	}
	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return err
		}
		p.Amount = s
		return nil
	}
	p.Amount = string(value)
	return nil
}

// InitiateResult is returned to the caller after a successful initiation.
// PaymentURL is where the browser submits PayRequestID and Checksum to
// hand the user over to the gateway.
type InitiateResult struct {
	PayRequestID string
	Checksum     string
	PaymentURL   string
	Reference    string
}

// StatusResult is the view data of the payment status page.
type StatusResult struct {
	IsSuccessful    bool
	StatusMessage   string
	DetailedMessage string
	Reference       string
	PayRequestID    string
}
