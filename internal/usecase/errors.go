package usecase

import "errors"

// Sentinel errors shared by all use cases. HTTP handlers map them to status
// codes with errors.Is, so wrapped variants still match.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("operation not allowed")
	ErrValidation    = errors.New("invalid input")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrUnauthorized  = errors.New("invalid credentials")
	ErrConfig        = errors.New("service not configured")
	ErrProvider      = errors.New("payment provider error")
)
