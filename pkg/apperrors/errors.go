package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrRowNotFound   = errors.New("reconciliation row not found")
	ErrInvalidValue  = errors.New("invalid value")
	ErrRowUnresolved = errors.New("reconciliation row has no item selected")
	ErrNoTenantScope = errors.New("no household scope in context")
)
