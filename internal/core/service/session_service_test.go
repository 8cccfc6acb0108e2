package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/coderbb/identity-api/internal/core/domain"
	"github.com/coderbb/identity-api/internal/infrastructure/crypto"
)

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func newSessionService(repo *stubUserRepo, tokens *stubTokenRepo) *SessionService {
	return NewSessionService(
		repo,
		tokens,
		crypto.NewBcryptHasher(),
		crypto.NewJWTCodec(testAccessSecret),
		crypto.NewJWTCodec(testRefreshSecret),
		time.Hour,
		365*24*time.Hour,
		zerolog.Nop(),
	)
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, confirmed bool) *domain.User {
	t.Helper()
	hash, err := crypto.NewBcryptHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.Create(context.Background(), &domain.User{
		Name:         "Alice",
		EmailAddress: email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		AccountConfirmation: domain.AccountConfirmation{
			Status: confirmed,
			Token:  "conf-token",
			Code:   "042137",
		},
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func decodeClaims(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	return claims
}

func TestSessionService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := newSessionService(repo, tokens)

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)

	user, pair, err := svc.Login(context.Background(), "a@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	// Both tokens carry the user id as the sole identity claim.
	accessClaims := decodeClaims(t, pair.AccessToken, testAccessSecret)
	if accessClaims["userId"] != seeded.ID {
		t.Fatalf("access token subject = %v, want %s", accessClaims["userId"], seeded.ID)
	}
	refreshClaims := decodeClaims(t, pair.RefreshToken, testRefreshSecret)
	if refreshClaims["userId"] != seeded.ID {
		t.Fatalf("refresh token subject = %v, want %s", refreshClaims["userId"], seeded.ID)
	}

	// Expiries consistent with the configured TTLs.
	now := time.Now().Unix()
	accessExp := int64(accessClaims["exp"].(float64))
	if accessExp < now+3500 || accessExp > now+3700 {
		t.Fatalf("access expiry %d not ~1h from now", accessExp)
	}

	if user.LastLoginAt == nil {
		t.Fatalf("lastLoginAt not set")
	}
	if _, err := tokens.Find(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("refresh token not stored: %v", err)
	}
}

func TestSessionService_Login_UnconfirmedBlocked(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, newStubTokenRepo())

	seedUser(t, repo, "a@x.com", "Passw0rd!", false)

	// Even the correct password must not get past the confirmation gate.
	if _, _, err := svc.Login(context.Background(), "a@x.com", "Passw0rd!"); err != domain.ErrConfirmationRequired {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
}

func TestSessionService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, newStubTokenRepo())

	seedUser(t, repo, "a@x.com", "Passw0rd!", true)

	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong-pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionService_Login_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, newStubTokenRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "Passw0rd!"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSessionService_Refresh_Success(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := newSessionService(repo, tokens)

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)
	_, pair, err := svc.Login(context.Background(), "a@x.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	accessToken, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	claims := decodeClaims(t, accessToken, testAccessSecret)
	if claims["userId"] != seeded.ID {
		t.Fatalf("minted token subject = %v, want %s", claims["userId"], seeded.ID)
	}
}

func TestSessionService_Refresh_UnstoredTokenRejected(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, newStubTokenRepo())

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)

	// Syntactically valid and correctly signed, but never stored.
	unstored, err := crypto.NewJWTCodec(testRefreshSecret).Issue(seeded.ID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), unstored); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_Refresh_BadSignatureRejected(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := newSessionService(repo, tokens)

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)

	// Stored, but signed with the wrong secret: verification failure must be
	// treated as "no valid session", not an internal error.
	forged, err := crypto.NewJWTCodec("some-other-secret").Issue(seeded.ID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	_ = tokens.Create(context.Background(), &domain.RefreshToken{Token: forged, CreatedAt: time.Now()})

	if _, err := svc.Refresh(context.Background(), forged); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_Refresh_ExpiredTokenRejected(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := newSessionService(repo, tokens)

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)

	expired, err := crypto.NewJWTCodec(testRefreshSecret).Issue(seeded.ID, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	_ = tokens.Create(context.Background(), &domain.RefreshToken{Token: expired, CreatedAt: time.Now()})

	if _, err := svc.Refresh(context.Background(), expired); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionService_Logout_DeletesRecord(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := newSessionService(repo, tokens)

	seedUser(t, repo, "a@x.com", "Passw0rd!", true)
	_, pair, _ := svc.Login(context.Background(), "a@x.com", "Passw0rd!")

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := tokens.Find(context.Background(), pair.RefreshToken); err != domain.ErrUnauthorized {
		t.Fatalf("refresh token record still present")
	}

	// Logging out again, or with no session at all, still succeeds.
	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty-token logout failed: %v", err)
	}
}

func TestSessionService_Identify(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, newStubTokenRepo())

	seeded := seedUser(t, repo, "a@x.com", "Passw0rd!", true)
	token, err := crypto.NewJWTCodec(testAccessSecret).Issue(seeded.ID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	user, err := svc.Identify(context.Background(), token)
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if user.ID != seeded.ID {
		t.Fatalf("identified wrong user: %s", user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatalf("identify must not expose the password hash")
	}

	if _, err := svc.Identify(context.Background(), "garbage"); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for garbage token, got %v", err)
	}
}
