package apperrors

import (
	"errors"
)

var (
	// Fatal at startup: the process must not serve requests without a signing key
	ErrSigningKeyMissing = errors.New("signing key is not configured")

	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenBadSignature = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token is expired")

	ErrCredentialNotFound      = errors.New("credential not found")
	ErrCredentialAlreadyExists = errors.New("credential already exists")
	ErrInvalidCredentials      = errors.New("invalid login or password")
)
