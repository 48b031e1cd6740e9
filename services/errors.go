package services

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnknownAction     = errors.New("unrecognized action")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)
