package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned when the service rejects the session token.
// By the time a caller sees this error the persisted token is already gone
// and the session-expired observer has been notified.
var ErrSessionExpired = errors.New("session expired, sign in again")

// Error is a non-2xx response from the service.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
}

// newError builds an Error from an unsuccessful response, extracting the
// service's message when the body carries one.
func newError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	// The service reports failures either as {"error": "..."} or as a
	// field->messages map from payload validation.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	if raw, ok := payload["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg
			return apiErr
		}
	}

	parts := make([]string, 0, len(payload))
	for field, raw := range payload {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
			continue
		}
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	apiErr.Message = strings.Join(parts, ", ")
	return apiErr
}
