package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt password hasher
// Will be used as default one if user not provide it's own
//
// Secret is pre-hashed with sha256 so any secret length fits into bcrypt 72 bytes limit.
// Salt is generated by bcrypt for every call and stored inside the hash itself.
type BcryptHasher struct {
	// bcrypt.DefaultCost if zero
	Cost int
}

var DefaultHasher = BcryptHasher{}

func (h BcryptHasher) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	sum := sha256.Sum256([]byte(secret))
	hash, err := bcrypt.GenerateFromPassword(sum[:], cost)
	return string(hash), err
}

// Verify secret against hash in constant time
// Malformed hash is reported as mismatch
func (h BcryptHasher) Verify(secret string, hash string) bool {
	sum := sha256.Sum256([]byte(secret))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:]) == nil
}
