package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/models"
)

// In memory credential repository for tests that don't need postgres
type CredentialRepo struct {
	mu          sync.Mutex
	credentials map[string]models.Credential
}

func NewCredentialRepo() *CredentialRepo {
	return &CredentialRepo{credentials: make(map[string]models.Credential)}
}

func (r *CredentialRepo) CreateCredential(_ context.Context, identifier string, secretHash string) (models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.credentials[identifier]; ok {
		return models.Credential{}, apperrors.ErrCredentialAlreadyExists
	}

	c := models.Credential{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		Identifier: identifier,
		SecretHash: secretHash,
	}
	r.credentials[identifier] = c

	return c, nil
}

func (r *CredentialRepo) GetCredential(_ context.Context, identifier string) (models.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.credentials[identifier]
	if !ok {
		return c, apperrors.ErrCredentialNotFound
	}

	return c, nil
}
