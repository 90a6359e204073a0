package uploads

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrStatusConflict        = errors.New("status conflict")
	ErrProviderNotConfigured = errors.New("extraction provider not configured")
)

// ValidationError rejects a submission before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a submission validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
