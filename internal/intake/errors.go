package intake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSenderNotConfigured is returned when a notify channel runs without a
// configured sender identity. This is a configuration failure, not a
// per-channel skip.
var ErrSenderNotConfigured = errors.New("email sender identity is not configured")

// BadRequestError marks failures caused by the inbound payload. The handler
// maps these to a 400 response carrying the message verbatim.
type BadRequestError struct {
	Message string
}

// Error implements the error interface.
func (e *BadRequestError) Error() string { return e.Message }

func badRequestf(format string, args ...any) *BadRequestError {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// MissingFieldsError reports every required field that was absent or empty,
// in declaration order.
type MissingFieldsError struct {
	Fields []string
}

// Error implements the error interface, enumerating all missing fields.
func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// IsBadRequest reports whether err is a client error that should map to a
// 400 response.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	var mf *MissingFieldsError
	return errors.As(err, &br) || errors.As(err, &mf)
}
