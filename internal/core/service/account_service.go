package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/core/ports"
	"github.com/coderbb/identity-api/internal/pkg/phone"
)

// AccountService implements registration and account confirmation.
type AccountService struct {
	users       ports.UserRepository
	hasher      ports.Hasher
	notifier    ports.Notifier
	frontendURL string
	log         zerolog.Logger
}

func NewAccountService(users ports.UserRepository, hasher ports.Hasher, notifier ports.Notifier, frontendURL string, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:       users,
		hasher:      hasher,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
	}
}

// Register creates a new unconfirmed account and schedules the confirmation
// email. The returned string is the new user's ID.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	raw := input.RawPhoneNumber
	if !strings.HasPrefix(raw, "+") {
		raw = "+" + raw
	}
	parsed, err := phone.Parse(raw)
	if err != nil {
		return "", domain.ErrInvalidPhoneNumber
	}

	// A number whose country has no known timezone is surfaced the same way
	// as an unparsable one.
	timezone, ok := phone.Timezone(parsed.ISOCode)
	if !ok {
		return "", domain.ErrInvalidPhoneNumber
	}

	if _, err := s.users.FindByEmail(ctx, input.EmailAddress); err == nil {
		return "", domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return "", fmt.Errorf("check email existence: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	token := uuid.NewString()
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		EmailAddress: input.EmailAddress,
		PhoneNumber: domain.PhoneNumber{
			ISOCode:             parsed.ISOCode,
			CountryCode:         parsed.CountryCode,
			InternationalNumber: parsed.InternationalNumber,
		},
		Timezone:     timezone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		AccountConfirmation: domain.AccountConfirmation{
			Status: false,
			Token:  token,
			Code:   code,
		},
		Consent:   input.Consent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if err == domain.ErrUserExists {
			// Lost the race against a concurrent registration; the unique
			// index is authoritative.
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	confirmationURL := fmt.Sprintf("%s/confirmation/%s?code=%s", s.frontendURL, token, code)
	s.notifier.Enqueue(domain.Email{
		To:      []string{created.EmailAddress},
		Subject: "Confirm Your Account",
		Text:    fmt.Sprintf("Hey %s, Please confirm your account by clicking on the link below\n\n%s", created.Name, confirmationURL),
	})

	return created.ID, nil
}

// Confirm flips an account to confirmed for a matching (token, code) pair.
// A second call after success returns ErrAlreadyConfirmed, never a silent
// success.
func (s *AccountService) Confirm(ctx context.Context, token, code string) (*domain.User, error) {
	user, err := s.users.FindByConfirmation(ctx, token, code)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidConfirmation
		}
		return nil, fmt.Errorf("find by confirmation: %w", err)
	}

	if user.Confirmed() {
		return nil, domain.ErrAlreadyConfirmed
	}

	now := time.Now().UTC()
	user.AccountConfirmation.Status = true
	user.AccountConfirmation.Timestamp = &now

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("confirm user: %w", err)
	}

	s.notifier.Enqueue(domain.Email{
		To:      []string{user.EmailAddress},
		Subject: "Account Confirmed",
		Text:    "Your account has been confirmed",
	})

	return user, nil
}

// generateOTP returns a 6-digit code drawn uniformly from the full
// 000000-999999 range.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
