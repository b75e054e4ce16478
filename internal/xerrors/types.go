// Package xerrors defines the typed failures shared across the quest
// generation pipeline. Extraction and schema failures abort the stage that
// produced them and are never downgraded to defaults; backend failures carry
// enough transport context for a caller to decide on retry policy.
package xerrors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrNotInitialized is returned when the pipeline is invoked before a backend
// adapter has been configured.
var ErrNotInitialized = errors.New("quest pipeline: backend adapter not configured")

// ExtractionError reports that no parseable structured payload could be
// located in the backend's raw text output.
type ExtractionError struct {
	Reason string
	Raw    string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

// Snippet returns a bounded view of the raw output for log lines.
func (e *ExtractionError) Snippet() string {
	const max = 160
	if len(e.Raw) <= max {
		return e.Raw
	}
	return e.Raw[:max] + "..."
}

// NewExtractionError builds an ExtractionError keeping the raw backend text
// for diagnosis.
func NewExtractionError(reason, raw string) *ExtractionError {
	return &ExtractionError{Reason: reason, Raw: raw}
}

// SchemaViolation reports a payload that parsed but violated a field
// constraint. Field is a dotted path ("quests[2].minutes"), Constraint a
// human-readable statement of the expected range or shape, and Actual the
// offending value rendered as text.
type SchemaViolation struct {
	Entity     string
	Field      string
	Constraint string
	Actual     string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation: %s.%s: expected %s, got %s", e.Entity, e.Field, e.Constraint, e.Actual)
}

// NewSchemaViolation builds a SchemaViolation for entity.field.
func NewSchemaViolation(entity, field, constraint string, actual any) *SchemaViolation {
	return &SchemaViolation{
		Entity:     entity,
		Field:      field,
		Constraint: constraint,
		Actual:     fmt.Sprintf("%v", actual),
	}
}

// BackendError reports a transport, auth, or rate-limit failure from the
// generation backend adapter. StatusCode is zero for non-HTTP failures.
type BackendError struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure is worth retrying at the caller
// level. The adapter itself never retries.
func (e *BackendError) Temporary() bool {
	if e.StatusCode > 0 {
		return isTransientHTTPStatus(e.StatusCode)
	}
	return isNetworkError(e.Err)
}

// NewBackendError wraps err with an optional HTTP status and caller-facing
// message.
func NewBackendError(err error, statusCode int, message string) *BackendError {
	return &BackendError{Err: err, StatusCode: statusCode, Message: message}
}

// MapHTTPError converts a non-2xx backend response into a BackendError with a
// message suitable for surfacing to a caller.
func MapHTTPError(statusCode int, body []byte) *BackendError {
	text := strings.TrimSpace(string(body))
	if len(text) > 300 {
		text = text[:300] + "..."
	}
	var message string
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		message = fmt.Sprintf("backend rejected credentials (status %d)", statusCode)
	case statusCode == http.StatusTooManyRequests:
		message = "backend rate limit reached (status 429)"
	case statusCode >= 500:
		message = fmt.Sprintf("backend unavailable (status %d)", statusCode)
	default:
		message = fmt.Sprintf("backend request failed (status %d)", statusCode)
	}
	if text != "" {
		message = message + ": " + text
	}
	return &BackendError{
		Err:        fmt.Errorf("backend status %d", statusCode),
		StatusCode: statusCode,
		Message:    message,
	}
}

// IsExtraction reports whether err is an ExtractionError.
func IsExtraction(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}

// IsSchemaViolation reports whether err is a SchemaViolation.
func IsSchemaViolation(err error) bool {
	var target *SchemaViolation
	return errors.As(err, &target)
}

// IsBackend reports whether err is a BackendError.
func IsBackend(err error) bool {
	var target *BackendError
	return errors.As(err, &target)
}

func isTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"timeout",
		"deadline exceeded",
		"connection reset",
		"broken pipe",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
