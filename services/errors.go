package services

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a gateway body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed gateway response")

// ValidationError reports missing or malformed caller input. Handlers map
// it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GatewayError reports a failed interaction with the payment gateway: a
// transport failure, a rejection code, or an incomplete response. Response
// carries the raw gateway payload for logging; it is never sent to callers.
type GatewayError struct {
	Message  string
	Code     int
	Response string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
