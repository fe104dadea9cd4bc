package service

import (
	"context"
	"errors"
	"strings"

	memberdomain "cell-community/backend/internal/member/domain"
	"cell-community/backend/internal/security"
)

// ErrInvalidCredentials is returned for any failed login: unknown email, wrong
// password, or an unreadable stored hash. Callers cannot tell these apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MemberRepo is the minimal member repository needed by the auth service.
type MemberRepo interface {
	GetByEmail(ctx context.Context, email string) (*memberdomain.Member, error)
}

// AuthService verifies member credentials at login.
type AuthService struct {
	members MemberRepo
	hasher  *security.Hasher
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(members MemberRepo, hasher *security.Hasher) *AuthService {
	return &AuthService{members: members, hasher: hasher}
}

// Login authenticates with email/password and returns the member on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*memberdomain.Member, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if m == nil || m.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(m.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return m, nil
}
