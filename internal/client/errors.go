package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"investment-backoffice-go/internal/models"
)

// GenericMessage is shown for every failure that carries no backend message
const GenericMessage = "حدث خطأ ما"

// ErrNetwork marks transport failures and responses that are not backend errors
var ErrNetwork = errors.New("network error")

// APIError is a structured backend error
type APIError struct {
	StatusCode int
	Message    string
	Target     []string
}

// Error joins the offending field names and the message
func (e *APIError) Error() string {
	if len(e.Target) == 0 {
		return e.Message
	}
	return strings.Join(e.Target, " ") + " " + e.Message
}

// IsAuth reports whether the session is missing or not allowed
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err wraps an APIError with status 401 or 403
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}

// Message returns the text to show the user for err
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return GenericMessage
}

func decodeError(status int, body []byte) error {
	var payload models.ErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.StatusCode == 0 {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return &APIError{StatusCode: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("%w: unexpected response status %d", ErrNetwork, status)
	}
	return &APIError{
		StatusCode: payload.StatusCode,
		Message:    payload.Message,
		Target:     payload.MetaData.Target,
	}
}
