package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/models"
)

type CredentialRepo struct {
	DB DBTX
}

const createCredential = `-- name: CreateCredential
INSERT INTO credentials (id, identifier, secret_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at, identifier, secret_hash
`

func (r *CredentialRepo) CreateCredential(ctx context.Context, identifier string, secretHash string) (models.Credential, error) {
	rows, _ := r.DB.Query(ctx, createCredential, uuid.New(), identifier, secretHash)
	credential, err := pgx.CollectOneRow(rows, rowToCredential)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return credential, apperrors.ErrCredentialAlreadyExists
		}

		return credential, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}

const getCredential = `-- name: GetCredential
SELECT id, created_at, identifier, secret_hash
FROM credentials
WHERE identifier = $1
`

func (r *CredentialRepo) GetCredential(ctx context.Context, identifier string) (models.Credential, error) {
	rows, _ := r.DB.Query(ctx, getCredential, identifier)
	credential, err := pgx.CollectOneRow(rows, rowToCredential)

	switch {
	case err == nil:
		return credential, nil
	case errors.Is(err, pgx.ErrNoRows):
		return credential, apperrors.ErrCredentialNotFound
	default:
		return credential, fmt.Errorf("db error: %w", err)
	}
}

func rowToCredential(row pgx.CollectableRow) (models.Credential, error) {
	var c models.Credential
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Identifier, &c.SecretHash)
	return c, err
}
