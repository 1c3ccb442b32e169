package service

import "errors"

var (
	ErrNotFound           = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("only the session owner may do this")
	ErrSessionFull        = errors.New("session is full")
	ErrSessionPast        = errors.New("session has already taken place")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError reports a missing or malformed input field. The operation
// is rejected before any store write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
