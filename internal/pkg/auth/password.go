package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured
const DefaultBcryptCost = 12

// CredentialVerifier compares a submitted secret against its stored form
type CredentialVerifier interface {
	// Hash derives the stored form of a secret
	Hash(secret string) (string, error)
	// Verify reports whether secret matches the stored form
	Verify(stored, secret string) bool
}

// BcryptVerifier stores secrets as bcrypt hashes. Used for admin passwords.
type BcryptVerifier struct {
	Cost int
}

// NewBcryptVerifier returns a bcrypt verifier; a cost outside bcrypt's range falls back to DefaultBcryptCost
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptVerifier{Cost: cost}
}

func (v *BcryptVerifier) Hash(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), v.Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (v *BcryptVerifier) Verify(stored, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

// PlainVerifier keeps secrets readable and compares them in constant time.
// Student PINs use it because administrators hand PINs out and read them back.
type PlainVerifier struct{}

func (PlainVerifier) Hash(secret string) (string, error) {
	return secret, nil
}

func (PlainVerifier) Verify(stored, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}
