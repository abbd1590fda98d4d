// Package auth implements credential authentication and the external
// identity bridge that both terminate in token issuance.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/domain"
)

const bcryptCost = 12

// BcryptVerifier implements domain.PasswordVerifier with bcrypt (cost 12).
type BcryptVerifier struct{}

var _ domain.PasswordVerifier = BcryptVerifier{}

// Hash returns a bcrypt hash of the plaintext password.
func (BcryptVerifier) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash.
func (BcryptVerifier) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// dummyHash is a hash of an unguessable value, compared against when the
// account lookup misses so both failure paths cost one bcrypt comparison.
var dummyHash, _ = BcryptVerifier{}.Hash("inkwell-timing-equalizer")
