package types

import (
	"errors"

	appErr "github.com/onsite-build/engine/pkg/errors"
)

// FromAppError flattens a service error into the wire shape. Wrapped
// errors keep their code; anything else degrades to unknown.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return &APIError{Code: string(ae.Code), Message: ae.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}
