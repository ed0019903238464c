package repository

import (
	"context"

	"github.com/nkiryanov/vollmed/internal/models"
)

// Credential repository interface
type CredentialRepo interface {
	// Create credential
	// If credential with identifier exists already has to return error apperrors.ErrCredentialAlreadyExists
	CreateCredential(ctx context.Context, identifier string, secretHash string) (models.Credential, error)

	// Get credential by its identifier (login)
	// If credential not found must return apperrors.ErrCredentialNotFound
	GetCredential(ctx context.Context, identifier string) (models.Credential, error)
}

// Storage groups all repositories backed by the same connection
type Storage interface {
	Credential() CredentialRepo
}
