package validators

import "github.com/go-playground/validator/v10"

var v = validator.New(validator.WithRequiredStructEnabled())

// New returns the shared validator instance. Struct tag rules live on
// the request types in internal/api/types.
func New() *validator.Validate { return v }
