package domain

import "errors"

// Sentinel errors returned by the core services. The API layer maps each one
// to an HTTP status and a stable client-facing message.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number")
	ErrConfirmationRequired = errors.New("account confirmation required")
	ErrAlreadyConfirmed     = errors.New("account already confirmed")
	ErrInvalidConfirmation  = errors.New("invalid account confirmation token or code")
	ErrInvalidCredentials   = errors.New("invalid email address or password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrExpiredURL           = errors.New("url has expired")
	ErrInvalidOldPassword   = errors.New("invalid old password")
	ErrPasswordUnchanged    = errors.New("new password must differ from the old password")
)
