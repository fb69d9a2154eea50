package utils

import "errors"

// Common application errors used across services.
var (
	ErrEmailTaken         = errors.New("an admin with this email already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrFieldNotSearchable = errors.New("field is not searchable")
)
