// Package service implements the promote/demote transitions that keep a
// member's role, the cell leader roster, and cell-mates' leader references
// consistent with each other.
package service

import (
	"context"
	"errors"
	"time"

	"cell-community/backend/internal/leadership/domain"
	"cell-community/backend/internal/leadership/repository"
	memberdomain "cell-community/backend/internal/member/domain"
)

// Sentinel errors for the leadership coordinator; handlers map them to HTTP status codes.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrLeaderNotFound = errors.New("leader not found")
	ErrAlreadyLeader  = errors.New("member is already a cell leader")
	ErrNoCell         = errors.New("member does not belong to a cell")
)

// Store is the transactional leadership store the coordinator runs against.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Coordinator owns the transitions between RegularMember and CellLeader.
// Admin is outside these transitions.
type Coordinator struct {
	store Store
}

// NewCoordinator returns a Coordinator backed by the given store.
func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// Promote makes the member the leader of its cell. The member must belong to a
// cell and must not already be a leader. The role change, the leader roster
// entry, and the cell-mates' leader references land in one transaction; members
// who join the cell later are not picked up retroactively.
func (c *Coordinator) Promote(ctx context.Context, memberID string) error {
	return c.store.WithinTx(ctx, func(tx repository.Tx) error {
		m, err := tx.LockMember(ctx, memberID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMemberNotFound
		}
		if m.Role == memberdomain.RoleCellLeader {
			return ErrAlreadyLeader
		}
		if m.CellID == nil {
			return ErrNoCell
		}
		if err := tx.SetRole(ctx, memberID, memberdomain.RoleCellLeader); err != nil {
			return err
		}
		// A stale assignment can linger from an interrupted earlier promotion;
		// clear it so the one-assignment-per-leader rule holds.
		if err := tx.DeleteAssignment(ctx, memberID); err != nil {
			return err
		}
		a := &domain.Assignment{
			LeaderID:  memberID,
			CellID:    *m.CellID,
			StartDate: time.Now().UTC().Format("2006-01-02"),
		}
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return err
		}
		return tx.AssignLeaderToCellMembers(ctx, *m.CellID, memberID)
	})
}

// Demote returns a cell leader to regular member and removes its leadership
// assignment. Cell members still carrying this member as their leader keep the
// stale reference; clearing it is pending a product decision.
func (c *Coordinator) Demote(ctx context.Context, memberID string) error {
	return c.store.WithinTx(ctx, func(tx repository.Tx) error {
		m, err := tx.LockLeader(ctx, memberID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrLeaderNotFound
		}
		if err := tx.SetRole(ctx, memberID, memberdomain.RoleRegularMember); err != nil {
			return err
		}
		return tx.DeleteAssignment(ctx, memberID)
	})
}
