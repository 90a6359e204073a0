package provider

import (
	"errors"
	"fmt"
)

// SoftError marks a provider failure the pipeline may absorb with a
// fallback: a non-2xx response or a response body that could not be
// understood. Missing credentials and transport misconfiguration are
// hard errors and never wrapped in SoftError.
type SoftError struct {
	Status int
	Reason string
}

func (e *SoftError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider: %s (status %d)", e.Reason, e.Status)
	}
	return "provider: " + e.Reason
}

// IsSoft reports whether err (or anything it wraps) is a SoftError.
func IsSoft(err error) bool {
	var soft *SoftError
	return errors.As(err, &soft)
}
