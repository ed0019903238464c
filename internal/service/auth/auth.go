package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/models"
	"github.com/nkiryanov/vollmed/internal/repository"
)

// Interface to create or compare credential secret hashes
type PasswordHasher interface {
	// Generate salted hash from secret
	Hash(secret string) (string, error)

	// Compare user provided secret and known hash
	// Must be protected against timing attacks and never fail on malformed hash
	Verify(secret string, hash string) bool
}

type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (models.Token, error)
}

type Config struct {
	// Hasher to use on provisioning and login; DefaultHasher if nil
	Hasher PasswordHasher

	// Lifetime of issued tokens; issuer default if zero
	TokenTTL time.Duration
}

// Auth service: checks credentials and mints bearer tokens
// It never keeps anything about issued tokens
type Service struct {
	hasher      PasswordHasher
	tokens      TokenIssuer
	credentials repository.CredentialRepo
	tokenTTL    time.Duration

	// Compared against when login is unknown so both failures cost the same
	dummyHash string
}

// NewService creates auth service
// tokens may be nil: such service only provisions credentials and Login fails with apperrors.ErrSigningKeyMissing
func NewService(cfg Config, tokens TokenIssuer, credentials repository.CredentialRepo) (*Service, error) {
	if credentials == nil {
		return nil, errors.New("credential repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	dummyHash, err := hasher.Hash("not-a-real-secret")
	if err != nil {
		return nil, fmt.Errorf("hasher is not usable. Err: %w", err)
	}

	return &Service{
		hasher:      hasher,
		tokens:      tokens,
		credentials: credentials,
		tokenTTL:    cfg.TokenTTL,
		dummyHash:   dummyHash,
	}, nil
}

// Provision new credential; secret is stored hashed only
func (s *Service) Provision(ctx context.Context, login string, password string) (models.Credential, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Credential{}, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	credential, err := s.credentials.CreateCredential(ctx, login, hash)
	if err != nil {
		return credential, fmt.Errorf("can't create credential. Err: %w", err)
	}

	return credential, nil
}

// Login checks credential and issue token with login as subject
// Unknown login and wrong password both return apperrors.ErrInvalidCredentials
func (s *Service) Login(ctx context.Context, login string, password string) (models.Token, error) {
	if s.tokens == nil {
		return models.Token{}, apperrors.ErrSigningKeyMissing
	}

	credential, err := s.credentials.GetCredential(ctx, login)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrCredentialNotFound):
		s.hasher.Verify(password, s.dummyHash)
		return models.Token{}, apperrors.ErrInvalidCredentials
	default:
		return models.Token{}, fmt.Errorf("can't read credential. Err: %w", err)
	}

	if !s.hasher.Verify(password, credential.SecretHash) {
		return models.Token{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(credential.Identifier, s.tokenTTL)
	if err != nil {
		return models.Token{}, fmt.Errorf("token could not generated, sorry. Err: %w", err)
	}

	return token, nil
}
