package domain

import "errors"

// ErrNetwork marks transport failures and responses whose error body could
// not be decoded. Surfaced to the user as a generic network error.
var ErrNetwork = errors.New("network error")

// ValidationError carries the first structured field message from a
// rejected request (the portal returns 422-style detail lists).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
