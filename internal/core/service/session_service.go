package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
)

// SessionService implements login, refresh-token rotation, and logout.
type SessionService struct {
	users      ports.UserRepository
	tokens     ports.RefreshTokenRepository
	hasher     ports.Hasher
	access     ports.TokenCodec
	refresh    ports.TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewSessionService(
	users ports.UserRepository,
	tokens ports.RefreshTokenRepository,
	hasher ports.Hasher,
	access, refresh ports.TokenCodec,
	accessTTL, refreshTTL time.Duration,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		users:      users,
		tokens:     tokens,
		hasher:     hasher,
		access:     access,
		refresh:    refresh,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Login authenticates a confirmed account and issues the access/refresh
// token pair. The refresh token is anchored server-side so it can be revoked
// and verified later.
func (s *SessionService) Login(ctx context.Context, emailAddress, password string) (*domain.User, ports.SessionPair, error) {
	user, err := s.users.FindByEmailWithPassword(ctx, emailAddress)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, ports.SessionPair{}, domain.ErrUserNotFound
		}
		return nil, ports.SessionPair{}, fmt.Errorf("find user: %w", err)
	}

	// Unconfirmed accounts never reach password comparison.
	if !user.Confirmed() {
		return nil, ports.SessionPair{}, domain.ErrConfirmationRequired
	}

	if s.hasher.Compare(user.PasswordHash, password) != nil {
		return nil, ports.SessionPair{}, domain.ErrInvalidCredentials
	}

	accessToken, err := s.access.Issue(user.ID, s.accessTTL)
	if err != nil {
		return nil, ports.SessionPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.refresh.Issue(user.ID, s.refreshTTL)
	if err != nil {
		return nil, ports.SessionPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, ports.SessionPair{}, fmt.Errorf("record last login: %w", err)
	}

	if err := s.tokens.Create(ctx, &domain.RefreshToken{Token: refreshToken, CreatedAt: now}); err != nil {
		return nil, ports.SessionPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return user, ports.SessionPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token for a refresh token that both exists in
// the store and verifies. Every failure collapses to ErrUnauthorized: a
// missing record, a bad signature, or an expired token all mean "no valid
// session".
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if _, err := s.tokens.Find(ctx, refreshToken); err != nil {
		if err != domain.ErrUnauthorized {
			s.log.Error().Err(err).Msg("refresh token lookup failed")
		}
		return "", domain.ErrUnauthorized
	}

	subject, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	accessToken, err := s.access.Issue(subject, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout deletes the refresh token record if one exists. It always succeeds:
// logging out an already-dead session is not an error.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		s.log.Warn().Err(err).Msg("refresh token delete failed during logout")
	}
	return nil
}

// Identify resolves a verified access token to its user. Used by the
// authentication middleware.
func (s *SessionService) Identify(ctx context.Context, accessToken string) (*domain.User, error) {
	subject, err := s.access.Verify(accessToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}
