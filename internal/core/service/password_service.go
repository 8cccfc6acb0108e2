package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// PasswordService implements the time-boxed recovery flow and the
// authenticated change-password flow.
type PasswordService struct {
	users       ports.UserRepository
	hasher      ports.Hasher
	notifier    ports.Notifier
	frontendURL string
	resetWindow time.Duration
	log         zerolog.Logger
}

func NewPasswordService(users ports.UserRepository, hasher ports.Hasher, notifier ports.Notifier, frontendURL string, resetWindow time.Duration, log zerolog.Logger) *PasswordService {
	if resetWindow <= 0 {
		resetWindow = 15 * time.Minute
	}
	return &PasswordService{
		users:       users,
		hasher:      hasher,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		resetWindow: resetWindow,
		log:         log,
	}
}

// Forgot opens a reset window for a confirmed account: a fresh single-use
// token with an expiry resetWindow from now, delivered by email.
func (s *PasswordService) Forgot(ctx context.Context, emailAddress string) error {
	user, err := s.users.FindByEmail(ctx, emailAddress)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !user.Confirmed() {
		return domain.ErrConfirmationRequired
	}

	token := uuid.NewString()
	expiry := time.Now().UnixMilli() + s.resetWindow.Milliseconds()

	user.PasswordReset.Token = &token
	user.PasswordReset.Expiry = &expiry

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	s.notifier.Enqueue(domain.Email{
		To:      []string{user.EmailAddress},
		Subject: "Account Password Reset Requested",
		Text:    fmt.Sprintf("Hey %s, Please reset your account password by clicking on the link below\n\nLink will expire within %d Minutes\n\n%s", user.Name, int(s.resetWindow.Minutes()), resetURL),
	})

	return nil
}

// Reset replaces the password for a live reset token. The token is single
// use: it is cleared on success, so a repeat call resolves as ErrUserNotFound.
func (s *PasswordService) Reset(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find by reset token: %w", err)
	}

	if !user.Confirmed() {
		return domain.ErrConfirmationRequired
	}

	// A token without an expiry is an inconsistent record.
	if user.PasswordReset.Expiry == nil {
		return domain.ErrInvalidRequest
	}
	if time.Now().UnixMilli() > *user.PasswordReset.Expiry {
		return domain.ErrExpiredURL
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user.PasswordHash = hash
	user.PasswordReset.Token = nil
	user.PasswordReset.Expiry = nil
	user.PasswordReset.LastResetAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.notifier.Enqueue(domain.Email{
		To:      []string{user.EmailAddress},
		Subject: "Account Password Reset",
		Text:    fmt.Sprintf("Hey %s, Your account password has been reset successfully.", user.Name),
	})

	return nil
}

// Change replaces the password of an authenticated user after verifying the
// old one. Existing sessions stay valid until their refresh tokens expire.
func (s *PasswordService) Change(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByIDWithPassword(ctx, userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if s.hasher.Compare(user.PasswordHash, oldPassword) != nil {
		return domain.ErrInvalidOldPassword
	}
	if newPassword == oldPassword {
		return domain.ErrPasswordUnchanged
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.notifier.Enqueue(domain.Email{
		To:      []string{user.EmailAddress},
		Subject: "Password Changed",
		Text:    fmt.Sprintf("Hey %s, Your account password has been changed successfully.", user.Name),
	})

	return nil
}
