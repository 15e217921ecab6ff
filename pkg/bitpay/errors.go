package bitpay

import (
	"encoding/json"
	"fmt"
)

// ValidationError reports a request that was stopped locally because required
// parameters are missing or malformed. Nothing was sent to the gateway.
type ValidationError struct {
	Endpoint string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request to %s is not ready to send: %s", e.Endpoint, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// APIError is a failure reported by the gateway itself rather than by the
// transport. The gateway encodes these either as a bare string or as an
// object with a type and a message, sometimes under a 200 status.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("bitpay: %s (%s)", e.Message, e.Type)
	}

	return "bitpay: " + e.Message
}

type errorEnvelope struct {
	Error *apiErrorBody `json:"error"`
}

// apiErrorBody accepts both shapes of the gateway's error field.
type apiErrorBody struct {
	Type    string
	Message string
}

func (b *apiErrorBody) UnmarshalJSON(data []byte) error {
	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		b.Message = message
		return nil
	}

	var obj struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	b.Type = obj.Type
	b.Message = obj.Message

	return nil
}
