package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential is provisioned out of band and only read on login
type Credential struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Identifier string
	SecretHash string
}
