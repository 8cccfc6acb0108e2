// Package crypto provides the concrete Hasher and TokenCodec
// implementations: bcrypt password hashing and HS256-signed JWTs.
package crypto

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// BcryptHasher hashes passwords with bcrypt at a fixed work factor.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash. bcrypt's comparison is
// constant-time.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
