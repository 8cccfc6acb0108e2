package ports

import "time"

// Hasher produces and verifies one-way password hashes. Implementations must
// use a constant-time comparison.
type Hasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when the password matches the stored hash.
	Compare(hash, password string) error
}

// TokenCodec signs and verifies compact expiring bearer tokens carrying a
// single subject claim. A codec instance is bound to one secret; access and
// refresh tokens use distinct codecs.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, error)
	// Verify returns the subject claim, or an error on any signature or
	// expiry failure.
	Verify(token string) (string, error)
}
