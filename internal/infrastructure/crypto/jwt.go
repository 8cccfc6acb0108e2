package crypto

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTCodec signs and verifies HS256 tokens carrying a single userId claim
// plus the standard expiry. A codec is bound to one secret; the access and
// refresh token families each get their own instance.
type JWTCodec struct {
	secret []byte
}

func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret)}
}

func (c *JWTCodec) Issue(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": subject,
		"exp":    time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

func (c *JWTCodec) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", jwt.ErrTokenUnverifiable
	}

	subject, ok := claims["userId"].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("token missing userId claim")
	}
	return subject, nil
}
