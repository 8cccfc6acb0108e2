package ports

import (
	"context"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// RegisterInput is the validated payload for account registration.
// RawPhoneNumber is the number as submitted, digits and optional leading +.
type RegisterInput struct {
	Name           string
	EmailAddress   string
	Password       string
	RawPhoneNumber string
	Consent        bool
}

// AccountService covers registration and email confirmation.
type AccountService interface {
	// Register creates an unconfirmed account and returns its ID.
	Register(ctx context.Context, input RegisterInput) (string, error)
	// Confirm flips the account to confirmed for a matching (token, code)
	// pair. A repeat call returns domain.ErrAlreadyConfirmed.
	Confirm(ctx context.Context, token, code string) (*domain.User, error)
}

// SessionPair is the access/refresh token pair issued at login.
type SessionPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService covers login, refresh-token rotation, and logout.
type SessionService interface {
	Login(ctx context.Context, emailAddress, password string) (*domain.User, SessionPair, error)
	// Refresh mints a new access token for a stored, verifiable refresh
	// token. Any failure is domain.ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout deletes the refresh token record if one exists. Always
	// succeeds.
	Logout(ctx context.Context, refreshToken string) error
	// Identify resolves the subject of a verified access token to its user.
	Identify(ctx context.Context, accessToken string) (*domain.User, error)
}

// PasswordService covers the unauthenticated recovery flow and the
// authenticated change-password flow.
type PasswordService interface {
	Forgot(ctx context.Context, emailAddress string) error
	Reset(ctx context.Context, token, newPassword string) error
	Change(ctx context.Context, userID, oldPassword, newPassword string) error
}
