package repository

import (
	"context"

	"cell-community/backend/internal/member/domain"
)

// Repository defines persistence for members.
type Repository interface {
	Create(ctx context.Context, m *domain.Member) error
	// GetByID returns the member for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	// GetByEmail returns the member for email, or nil if not found.
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	// GetDetail returns the member joined with cell and leader names, or nil if not found.
	GetDetail(ctx context.Context, id string) (*domain.Detail, error)
	// ListDetails returns all members joined with their cell names.
	ListDetails(ctx context.Context) ([]*domain.Detail, error)
	// ListRegularByCell returns regular members of the given cell joined with the cell name.
	ListRegularByCell(ctx context.Context, cellID string) ([]*domain.Detail, error)
	// Update applies the partial update to the member. Reports whether a row matched.
	Update(ctx context.Context, id string, u *domain.Update) (bool, error)
	// DeleteWithReferences removes every row referencing the member, then the
	// member row itself, in one transaction. Reports whether the member existed.
	DeleteWithReferences(ctx context.Context, id string) (bool, error)
}
