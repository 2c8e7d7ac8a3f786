package contract

import "errors"

var (
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrSchemaViolation     = errors.New("model response violates schema")
	ErrValidation          = errors.New("validation failed")
	ErrEmptyMessage        = errors.New("message is empty")
	ErrProviderUnavailable = errors.New("model provider is not configured")
	ErrUnknownSpecialist   = errors.New("unknown specialist")
	ErrUnknownCapability   = errors.New("unknown capability")
)
