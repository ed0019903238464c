package models

import (
	"time"
)

// Token issued by TokenManager
// Never stored on the server side: signature and expiry are the only source of validity
type Token struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Signature []byte
}

// Identity of the caller attached to a single request context
type Identity struct {
	Subject string
}
