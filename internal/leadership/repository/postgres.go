// Package repository persists leadership state: member roles, cell leader
// rosters, and the leader back-references on cell members.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"cell-community/backend/internal/db"
	"cell-community/backend/internal/leadership/domain"
	memberdomain "cell-community/backend/internal/member/domain"
)

// PostgresStore runs leadership write sequences against Postgres. Each sequence
// executes in a single transaction and locks the member row up front so
// concurrent transitions on the same member serialize.
type PostgresStore struct {
	pool *sql.DB
}

// NewPostgresStore returns a leadership store backed by the given pool.
func NewPostgresStore(pool *sql.DB) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithinTx runs fn against a transactional view of the store.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, s.pool, func(tx *sql.Tx) error {
		return fn(&postgresTx{tx: tx})
	})
}

// Tx is the transactional surface the leadership coordinator works against.
type Tx interface {
	// LockMember returns the member row locked for update, or nil if absent.
	LockMember(ctx context.Context, id string) (*memberdomain.Member, error)
	// LockLeader returns the member row locked for update only when its role is
	// CellLeader, or nil when absent or not a leader.
	LockLeader(ctx context.Context, id string) (*memberdomain.Member, error)
	SetRole(ctx context.Context, id string, role memberdomain.Role) error
	// DeleteAssignment removes any leadership assignment for the leader.
	DeleteAssignment(ctx context.Context, leaderID string) error
	CreateAssignment(ctx context.Context, a *domain.Assignment) error
	// AssignLeaderToCellMembers points every other member of the cell at the leader.
	AssignLeaderToCellMembers(ctx context.Context, cellID, leaderID string) error
}

type postgresTx struct {
	tx *sql.Tx
}

const lockColumns = `id, role, cell_id`

func (t *postgresTx) lock(ctx context.Context, q string, args ...any) (*memberdomain.Member, error) {
	var m memberdomain.Member
	var cellID sql.NullString
	err := t.tx.QueryRowContext(ctx, q, args...).Scan(&m.ID, &m.Role, &cellID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if cellID.Valid {
		m.CellID = &cellID.String
	}
	return &m, nil
}

func (t *postgresTx) LockMember(ctx context.Context, id string) (*memberdomain.Member, error) {
	return t.lock(ctx, `SELECT `+lockColumns+` FROM members WHERE id = $1 FOR UPDATE`, id)
}

func (t *postgresTx) LockLeader(ctx context.Context, id string) (*memberdomain.Member, error) {
	return t.lock(ctx,
		`SELECT `+lockColumns+` FROM members WHERE id = $1 AND role = $2 FOR UPDATE`,
		id, memberdomain.RoleCellLeader)
}

func (t *postgresTx) SetRole(ctx context.Context, id string, role memberdomain.Role) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE members SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	return err
}

func (t *postgresTx) DeleteAssignment(ctx context.Context, leaderID string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM cell_leaders WHERE leader_id = $1`, leaderID)
	return err
}

func (t *postgresTx) CreateAssignment(ctx context.Context, a *domain.Assignment) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO cell_leaders (leader_id, cell_id, start_date) VALUES ($1, $2, $3)`,
		a.LeaderID, a.CellID, a.StartDate)
	return err
}

func (t *postgresTx) AssignLeaderToCellMembers(ctx context.Context, cellID, leaderID string) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE members SET leader_id = $1, updated_at = now() WHERE cell_id = $2 AND id <> $1`,
		leaderID, cellID)
	return err
}
