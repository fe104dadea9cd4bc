// Package service implements member lifecycle operations: registration,
// lookup, partial update, and deletion with reference cleanup.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cell-community/backend/internal/member/domain"
	memberrepo "cell-community/backend/internal/member/repository"
	"cell-community/backend/internal/security"
)

// Sentinel errors for the member service; handlers map them to HTTP status codes.
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidMember    = errors.New("invalid member")
	ErrNoCellMembers    = errors.New("no regular members found for this cell")
)

// MemberService owns member CRUD. Passwords are hashed before they reach the
// repository; the plaintext never leaves this package.
type MemberService struct {
	repo   memberrepo.Repository
	hasher *security.Hasher
}

// NewMemberService returns a MemberService with the given dependencies.
func NewMemberService(repo memberrepo.Repository, hasher *security.Hasher) *MemberService {
	return &MemberService{repo: repo, hasher: hasher}
}

// Create registers a new member and returns its assigned ID. The password is
// required and stored only as a bcrypt hash.
func (s *MemberService) Create(ctx context.Context, m *domain.Member, password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrPasswordRequired
	}
	m.Email = strings.TrimSpace(strings.ToLower(m.Email))
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMember, err)
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	m.ID = uuid.New().String()
	m.PasswordHash = hashed
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.repo.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

// Get returns the member joined with its cell name and leader name.
func (s *MemberService) Get(ctx context.Context, id string) (*domain.Detail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrMemberNotFound
	}
	return d, nil
}

// List returns all members joined with their cell names.
func (s *MemberService) List(ctx context.Context) ([]*domain.Detail, error) {
	return s.repo.ListDetails(ctx)
}

// ListRegularByCell returns the regular members of the given cell. A cell with
// no regular members yet is a reportable condition, not empty data.
func (s *MemberService) ListRegularByCell(ctx context.Context, cellID string) ([]*domain.Detail, error) {
	list, err := s.repo.ListRegularByCell(ctx, cellID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoCellMembers
	}
	return list, nil
}

// Update applies a partial update. Absent fields keep their stored values. A
// supplied password is hashed before storage; an omitted, null, or blank
// password leaves the stored hash untouched.
func (s *MemberService) Update(ctx context.Context, id string, u *domain.Update, password domain.Optional[string]) error {
	if password.Present && password.Valid && strings.TrimSpace(password.Value) != "" {
		hashed, err := s.hasher.Hash([]byte(password.Value))
		if err != nil {
			return err
		}
		u.PasswordHash = domain.Some(hashed)
	}
	if u.Email.Present && u.Email.Valid {
		// Same normalization as Create; login looks members up by the
		// lowercased address.
		u.Email = domain.Some(strings.TrimSpace(strings.ToLower(u.Email.Value)))
	}
	if u.Role.Present {
		if !u.Role.Valid || !u.Role.Value.Valid() {
			return fmt.Errorf("%w: unknown role", ErrInvalidMember)
		}
	}
	matched, err := s.repo.Update(ctx, id, u)
	if err != nil {
		return err
	}
	if !matched {
		return ErrMemberNotFound
	}
	return nil
}

// Delete removes every record referencing the member, then the member itself.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteWithReferences(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}
