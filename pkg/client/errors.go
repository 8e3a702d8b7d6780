package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Kind is the discriminant of the closed error taxonomy. Classification and
// rendering switch exhaustively over it; adding a kind means revisiting both.
type Kind string

const (
	// KindAuth covers 401 responses (bad or missing credential).
	KindAuth Kind = "auth"

	// KindValidation covers 422 responses with field-level errors.
	KindValidation Kind = "validation"

	// KindRateLimit covers 429 responses and 403 responses whose
	// x-ratelimit-remaining header is "0".
	KindRateLimit Kind = "rate_limit"

	// KindNotFound covers 404 responses.
	KindNotFound Kind = "not_found"

	// KindPermission covers 403 responses that are not rate limiting.
	KindPermission Kind = "permission"

	// KindConflict covers 409 responses.
	KindConflict Kind = "conflict"

	// KindGeneric covers every other non-2xx status.
	KindGeneric Kind = "generic"

	// KindNetwork covers transport-level failures where no HTTP response
	// exists (connection reset, timeout).
	KindNetwork Kind = "network"
)

// fallbackMessage is used when neither the response body nor the HTTP
// status text yields a message.
const fallbackMessage = "API request failed"

// APIError is a classified request failure. Values are immutable after
// construction; retries build fresh ones per attempt.
type APIError struct {
	// Kind discriminates the variant.
	Kind Kind

	// StatusCode is the HTTP status, or 0 for network errors.
	StatusCode int

	// Message is the human-readable message selected during classification.
	Message string

	// RawBody is the undecoded response body, kept for diagnostics.
	RawBody []byte

	// ResetAt is the rate limit reset time in epoch seconds. Only set for
	// KindRateLimit; 0 means the header was absent.
	ResetAt int64

	// Errors holds the raw entries of body.errors. Only set for
	// KindValidation.
	Errors []json.RawMessage

	// Err is the underlying transport error. Only set for KindNetwork.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind == KindNetwork && e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// Unwrap exposes the transport cause of network errors to errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the executor may re-attempt the request for
// this error within its budget.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindNetwork:
		return true
	case KindGeneric:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// ValidationMessages renders the validation entries deterministically:
// plain strings verbatim, {field, message} objects as "field: message",
// message-only objects as the message, anything else as canonical JSON.
// Null entries are dropped.
func (e *APIError) ValidationMessages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, raw := range e.Errors {
		if msg, ok := renderValidationEntry(raw); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func renderValidationEntry(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		field, _ := obj["field"].(string)
		message, _ := obj["message"].(string)
		switch {
		case field != "" && message != "":
			return field + ": " + message, true
		case message != "":
			return message, true
		}
		// Fall through to canonical JSON; encoding/json sorts map keys.
		canon, err := json.Marshal(obj)
		if err != nil {
			return "", false
		}
		return string(canon), true
	}

	// Scalars and arrays: re-encode to normalize whitespace.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	canon, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(canon), true
}

// errorBody is the wire shape of an API error response.
type errorBody struct {
	Message          string            `json:"message"`
	Errors           []json.RawMessage `json:"errors"`
	DocumentationURL string            `json:"documentation_url"`
}

// Classify maps a non-2xx response to its taxonomy variant. It is a pure
// function of the status code, headers, and body; an undecodable body falls
// back to the HTTP status text without surfacing the decode error.
func Classify(statusCode int, header http.Header, body []byte) *APIError {
	var parsed errorBody
	if len(body) > 0 {
		// Decode failures are deliberately ignored; parsed stays zero.
		_ = json.Unmarshal(body, &parsed)
	}

	message := parsed.Message
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = fallbackMessage
	}

	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    message,
		RawBody:    body,
	}

	switch statusCode {
	case http.StatusUnauthorized:
		apiErr.Kind = KindAuth
	case http.StatusForbidden:
		if header.Get("x-ratelimit-remaining") == "0" {
			apiErr.Kind = KindRateLimit
			apiErr.ResetAt = parseResetHeader(header)
		} else {
			apiErr.Kind = KindPermission
		}
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case http.StatusConflict:
		apiErr.Kind = KindConflict
	case http.StatusUnprocessableEntity:
		apiErr.Kind = KindValidation
		apiErr.Errors = parsed.Errors
	case http.StatusTooManyRequests:
		apiErr.Kind = KindRateLimit
		apiErr.ResetAt = parseResetHeader(header)
	default:
		apiErr.Kind = KindGeneric
	}

	return apiErr
}

// parseResetHeader reads x-ratelimit-reset as epoch seconds, truncating any
// fractional part. Returns 0 when the header is absent or malformed.
func parseResetHeader(header http.Header) int64 {
	raw := header.Get("x-ratelimit-reset")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// NetworkError wraps a transport failure into the taxonomy. No HTTP
// response exists, so classification by status is impossible.
func NetworkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "network error",
		Err:     err,
	}
}
