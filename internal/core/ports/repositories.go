package ports

import (
	"context"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// UserRepository is the persistence contract for user records.
//
// Lookups return domain.ErrUserNotFound when no record matches. Default
// lookups omit the password hash; the WithPassword variants include it.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned ID. A
	// duplicate email address is reported as domain.ErrUserExists, backed by
	// a unique index so the check is race-safe.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByEmail(ctx context.Context, emailAddress string) (*domain.User, error)
	FindByEmailWithPassword(ctx context.Context, emailAddress string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error)

	// FindByConfirmation matches on the exact (token, code) pair minted at
	// registration.
	FindByConfirmation(ctx context.Context, token, code string) (*domain.User, error)

	// FindByResetToken matches on an active passwordReset.token.
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)

	// Update persists mutated confirmation, password, reset, and login
	// fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
}

// RefreshTokenRepository is the persistence contract for server-side refresh
// token records.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// Find returns domain.ErrUnauthorized when no record matches: an
	// unstored token is indistinguishable from no session.
	Find(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Delete is best-effort; deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
