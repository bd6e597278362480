package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const unknownServerError = "unknown error returned by the server"

// ErrNoData means the server reported success without a payload.
var ErrNoData = errors.New("server returned no data")

// Envelope is the uniform response shape of /api/todo.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Error is a failure reported by the proxy or the backend.
type Error struct {
	// Status is the HTTP status, 0 when the proxy itself was unreachable.
	Status  int
	Message string
	Details string
	Tip     string

	// envelope marks failures carried by a 2xx envelope with success=false
	envelope bool
}

func (e *Error) Error() string {
	if e.Status == 0 && e.Details != "" {
		return e.Message + ": " + e.Details
	}
	if e.envelope || e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.Status)
}

// errorBody is what non-2xx responses carry.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Tip     string `json:"tip"`
}

// decode unwraps resp. present is false when the envelope has no data.
func decode[T any](resp *http.Response) (value T, present bool, err error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return value, false, &Error{Status: resp.StatusCode, Message: "read response", Details: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := unknownServerError
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return value, false, &Error{Status: resp.StatusCode, Message: msg, Details: eb.Details, Tip: eb.Tip}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return value, false, &Error{Status: resp.StatusCode, Message: "invalid response from server", Details: err.Error(), envelope: true}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = unknownServerError
		}
		return value, false, &Error{Status: resp.StatusCode, Message: msg, envelope: true}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return value, false, nil
	}
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return value, false, &Error{Status: resp.StatusCode, Message: "invalid data from server", Details: err.Error(), envelope: true}
	}
	return value, true, nil
}

// TipOf extracts the remediation tip from err, if any.
func TipOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Tip
	}
	return ""
}
