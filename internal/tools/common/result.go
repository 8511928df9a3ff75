package common

import (
	"encoding/json"

	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

// Result is the outcome of one invocation: a payload or an error, never both.
type Result struct {
	Payload any
	Err     *toolerr.Error
}

// IsError reports whether the invocation failed.
func (r Result) IsError() bool {
	return r.Err != nil
}

// ErrorBody is the JSON shape of a failed invocation.
type ErrorBody struct {
	Kind     toolerr.Kind     `json:"kind"`
	Message  string           `json:"message"`
	Field    string           `json:"field,omitempty"`
	Category toolerr.Category `json:"category,omitempty"`
	Status   int              `json:"status,omitempty"`
}

// ErrorEnvelope wraps ErrorBody as {"error": {...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Envelope returns the error envelope of a failed result.
func (r Result) Envelope() ErrorEnvelope {
	if r.Err == nil {
		return ErrorEnvelope{}
	}
	return ErrorEnvelope{Error: ErrorBody{
		Kind:     r.Err.Kind,
		Message:  r.Err.Message,
		Field:    r.Err.Field,
		Category: r.Err.Category,
		Status:   r.Err.Status,
	}}
}

// JSON renders the payload, or the error envelope of a failed result.
func (r Result) JSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Envelope())
	}
	return json.Marshal(r.Payload)
}
