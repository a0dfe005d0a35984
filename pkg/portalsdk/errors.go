package portalsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the "error" member of a portal error body.
const (
	ErrorCodeUnauthenticated   = "unauthenticated"
	ErrorCodeForbidden         = "forbidden"
	ErrorCodeValidation        = "validation_error"
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is a non-2xx portal answer.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Details     map[string]string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("portal: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("portal: %s: %s (HTTP %d)", e.Code, e.Description, e.StatusCode)
}

// Is matches another *APIError by Code, so callers can write
// errors.Is(err, portalsdk.ErrConflict).
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is against APIError codes.
var (
	ErrUnauthenticated = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeUnauthenticated}
	ErrForbidden       = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeForbidden}
	ErrValidation      = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeValidation}
	ErrInvalidRequest  = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeInvalidRequest}
	ErrNotFound        = &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound}
	ErrConflict        = &APIError{StatusCode: http.StatusConflict, Code: ErrorCodeConflict}
	ErrRateLimited     = &APIError{StatusCode: http.StatusTooManyRequests, Code: ErrorCodeRateLimitExceeded}
	ErrServerError     = &APIError{StatusCode: http.StatusInternalServerError, Code: ErrorCodeServerError}
)

// parseErrorResponse turns an error body into an *APIError. Bodies that are
// not portal errors fall back to a code derived from the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Details:     errResp.Details,
		}
	}

	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusBadRequest:
		code = ErrorCodeInvalidRequest
	case http.StatusUnauthorized:
		code = ErrorCodeUnauthenticated
	case http.StatusForbidden:
		code = ErrorCodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = ErrorCodeNotFound
	case http.StatusConflict:
		code = ErrorCodeConflict
	case http.StatusTooManyRequests:
		code = ErrorCodeRateLimitExceeded
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
