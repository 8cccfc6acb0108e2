package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/coderbb/identity-api/internal/core/domain"
)

// stubUserRepo is an in-memory UserRepository mirroring the mongo adapter's
// behavior: default lookups omit the password hash, and Update keeps the
// stored hash when the incoming user carries none.
type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	if u.AccountConfirmation.Timestamp != nil {
		ts := *u.AccountConfirmation.Timestamp
		clone.AccountConfirmation.Timestamp = &ts
	}
	if u.PasswordReset.Token != nil {
		tok := *u.PasswordReset.Token
		clone.PasswordReset.Token = &tok
	}
	if u.PasswordReset.Expiry != nil {
		exp := *u.PasswordReset.Expiry
		clone.PasswordReset.Expiry = &exp
	}
	if u.PasswordReset.LastResetAt != nil {
		at := *u.PasswordReset.LastResetAt
		clone.PasswordReset.LastResetAt = &at
	}
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		clone.LastLoginAt = &at
	}
	return &clone
}

func (r *stubUserRepo) withoutPassword(u *domain.User) *domain.User {
	clone := cloneUser(u)
	clone.PasswordHash = ""
	return clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.EmailAddress == user.EmailAddress {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.EmailAddress == email {
			return r.withoutPassword(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.EmailAddress == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return r.withoutPassword(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDWithPassword(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByConfirmation(_ context.Context, token, code string) (*domain.User, error) {
	for _, u := range r.users {
		if u.AccountConfirmation.Token == token && u.AccountConfirmation.Code == code {
			return r.withoutPassword(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.PasswordReset.Token != nil && *u.PasswordReset.Token == token {
			return r.withoutPassword(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	clone := cloneUser(user)
	if clone.PasswordHash == "" {
		clone.PasswordHash = stored.PasswordHash
	}
	r.users[user.ID] = clone
	return nil
}

// stubTokenRepo is an in-memory RefreshTokenRepository.
type stubTokenRepo struct {
	tokens map[string]*domain.RefreshToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *stubTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	rt := *token
	r.tokens[token.Token] = &rt
	return nil
}

func (r *stubTokenRepo) Find(_ context.Context, token string) (*domain.RefreshToken, error) {
	if rt, ok := r.tokens[token]; ok {
		found := *rt
		return &found, nil
	}
	return nil, domain.ErrUnauthorized
}

func (r *stubTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

// recorderNotifier captures enqueued emails for assertions.
type recorderNotifier struct {
	mu     sync.Mutex
	emails []domain.Email
}

func (n *recorderNotifier) Enqueue(email domain.Email) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
}

func (n *recorderNotifier) sent() []domain.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Email, len(n.emails))
	copy(out, n.emails)
	return out
}
