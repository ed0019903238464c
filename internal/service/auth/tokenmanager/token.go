package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/models"
)

const (
	defaultTokenTTL      = 15 * time.Minute
	defaultSigningMethod = "HS256"
)

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm: HS256, HS384 or HS512
	// If not set than default is used
	Alg string

	// Token lifetime used when Issue called with non positive ttl
	// If not set than default is used
	TTL time.Duration
}

// TokenManager issues and verifies signed bearer tokens
// Immutable after New, so it is safe to share between requests
type TokenManager struct {
	key []byte
	alg jwt.SigningMethod
	ttl time.Duration

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, apperrors.ErrSigningKeyMissing
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use one of HS256, HS384, HS512", cfg.Alg)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}

	return &TokenManager{
		key: []byte(cfg.SecretKey),
		alg: alg,
		ttl: cfg.TTL,
		now: time.Now,
	}, nil
}

// Issue signed token for subject valid for ttl
func (m *TokenManager) Issue(subject string, ttl time.Duration) (models.Token, error) {
	var t models.Token

	if m == nil || len(m.key) == 0 {
		return t, apperrors.ErrSigningKeyMissing
	}
	if subject == "" {
		return t, errors.New("token subject must not be empty")
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(m.alg, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	// Sign by hand instead of SignedString: the raw signature is part of the issued token
	signing, err := token.SigningString()
	if err != nil {
		return t, fmt.Errorf("error while encoding token. Err: %w", err)
	}
	signature, err := m.alg.Sign(signing, m.key)
	if err != nil {
		return t, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.Token{
		Value:     signing + "." + token.EncodeSegment(signature),
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		Signature: signature,
	}, nil
}

// Verify token and return its subject
// Returned error always wraps one of apperrors.ErrTokenMalformed, ErrTokenBadSignature, ErrTokenExpired
func (m *TokenManager) Verify(value string) (subject string, err error) {
	if m == nil || len(m.key) == 0 {
		return "", apperrors.ErrSigningKeyMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err = parser.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", classify(err), err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: subject claim is empty", apperrors.ErrTokenMalformed)
	}

	return claims.Subject, nil
}

// classify maps jwt validation errors to the application token errors
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	default:
		return apperrors.ErrTokenMalformed
	}
}
