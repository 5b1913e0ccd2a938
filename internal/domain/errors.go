// internal/domain/errors.go
package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrInvalidInput   = errors.New("invalid input")
	// ErrIntegrity means stored records reference rows that do not exist.
	ErrIntegrity = errors.New("data integrity violation")
)
