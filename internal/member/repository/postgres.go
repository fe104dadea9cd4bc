package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cell-community/backend/internal/db"
	"cell-community/backend/internal/member/domain"
)

type PostgresRepository struct {
	pool *sql.DB
}

// NewPostgresRepository returns a member repository that uses the given pool for persistence.
func NewPostgresRepository(pool *sql.DB) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const memberColumns = `m.id, m.full_name, m.birth_date, m.email, m.phone, m.password_hash, m.role,
	m.baptized, m.attended_welcome_coffee, m.in_ministry, m.ministry_name, m.in_cell,
	m.cell_id, m.leader_id,
	m.course_new_path, m.course_devotional_life, m.course_christian_family,
	m.course_prosperity_life, m.course_authority, m.course_life_in_spirit,
	m.course_character_of_christ, m.course_restored_identity,
	m.created_at, m.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner, extra ...any) (*domain.Member, error) {
	var m domain.Member
	var cellID, leaderID sql.NullString
	dest := []any{
		&m.ID, &m.FullName, &m.BirthDate, &m.Email, &m.Phone, &m.PasswordHash, &m.Role,
		&m.Baptized, &m.AttendedWelcomeCoffee, &m.InMinistry, &m.MinistryName, &m.InCell,
		&cellID, &leaderID,
		&m.Courses.NewPath, &m.Courses.DevotionalLife, &m.Courses.ChristianFamily,
		&m.Courses.ProsperityLife, &m.Courses.Authority, &m.Courses.LifeInSpirit,
		&m.Courses.CharacterOfChrist, &m.Courses.RestoredIdentity,
		&m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if cellID.Valid {
		m.CellID = &cellID.String
	}
	if leaderID.Valid {
		m.LeaderID = &leaderID.String
	}
	return &m, nil
}

func scanDetail(row rowScanner) (*domain.Detail, error) {
	var cellName, leaderName sql.NullString
	m, err := scanMember(row, &cellName, &leaderName)
	if err != nil {
		return nil, err
	}
	d := &domain.Detail{Member: *m}
	if cellName.Valid {
		d.CellName = &cellName.String
	}
	if leaderName.Valid {
		d.LeaderName = &leaderName.String
	}
	return d, nil
}

// Create persists the member. The member must have ID and PasswordHash set.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Member) error {
	const q = `
		INSERT INTO members (
			id, full_name, birth_date, email, phone, password_hash, role,
			baptized, attended_welcome_coffee, in_ministry, ministry_name, in_cell,
			cell_id, leader_id,
			course_new_path, course_devotional_life, course_christian_family,
			course_prosperity_life, course_authority, course_life_in_spirit,
			course_character_of_christ, course_restored_identity,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.pool.ExecContext(ctx, q,
		m.ID, m.FullName, m.BirthDate, m.Email, m.Phone, m.PasswordHash, m.Role,
		m.Baptized, m.AttendedWelcomeCoffee, m.InMinistry, m.MinistryName, m.InCell,
		m.CellID, m.LeaderID,
		m.Courses.NewPath, m.Courses.DevotionalLife, m.Courses.ChristianFamily,
		m.Courses.ProsperityLife, m.Courses.Authority, m.Courses.LifeInSpirit,
		m.Courses.CharacterOfChrist, m.Courses.RestoredIdentity,
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// GetByID returns the member for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members m WHERE m.id = $1`
	m, err := scanMember(r.pool.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// GetByEmail returns the member for email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members m WHERE m.email = $1`
	m, err := scanMember(r.pool.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// GetDetail returns the member joined with its cell name and leader name, or nil if not found.
func (r *PostgresRepository) GetDetail(ctx context.Context, id string) (*domain.Detail, error) {
	q := `SELECT ` + memberColumns + `, c.name, l.full_name
		FROM members m
		LEFT JOIN cells c ON m.cell_id = c.id
		LEFT JOIN members l ON m.leader_id = l.id
		WHERE m.id = $1`
	d, err := scanDetail(r.pool.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListDetails returns all members joined with their cell names.
func (r *PostgresRepository) ListDetails(ctx context.Context) ([]*domain.Detail, error) {
	q := `SELECT ` + memberColumns + `, c.name, NULL
		FROM members m
		LEFT JOIN cells c ON m.cell_id = c.id
		ORDER BY m.created_at`
	return r.queryDetails(ctx, q)
}

// ListRegularByCell returns regular members of the given cell joined with the cell name.
func (r *PostgresRepository) ListRegularByCell(ctx context.Context, cellID string) ([]*domain.Detail, error) {
	q := `SELECT ` + memberColumns + `, c.name, NULL
		FROM members m
		LEFT JOIN cells c ON m.cell_id = c.id
		WHERE m.cell_id = $1 AND m.role = $2
		ORDER BY m.created_at`
	return r.queryDetails(ctx, q, cellID, domain.RoleRegularMember)
}

func (r *PostgresRepository) queryDetails(ctx context.Context, q string, args ...any) ([]*domain.Detail, error) {
	rows, err := r.pool.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update applies the partial update to the member identified by id. Absent
// fields are left untouched; an explicit null clears the column (references go
// to SQL NULL, scalars to their zero value). Reports whether a row matched.
func (r *PostgresRepository) Update(ctx context.Context, id string, u *domain.Update) (bool, error) {
	if u.Empty() {
		// Nothing to change; still report whether the member exists.
		m, err := r.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		return m != nil, nil
	}

	var sets []string
	var args []any

	setScalar(&sets, &args, "full_name", u.FullName)
	setScalar(&sets, &args, "birth_date", u.BirthDate)
	setScalar(&sets, &args, "email", u.Email)
	setScalar(&sets, &args, "phone", u.Phone)
	setScalar(&sets, &args, "password_hash", u.PasswordHash)
	setScalar(&sets, &args, "role", u.Role)
	setScalar(&sets, &args, "baptized", u.Baptized)
	setScalar(&sets, &args, "attended_welcome_coffee", u.AttendedWelcomeCoffee)
	setScalar(&sets, &args, "in_ministry", u.InMinistry)
	setScalar(&sets, &args, "ministry_name", u.MinistryName)
	setScalar(&sets, &args, "in_cell", u.InCell)
	setReference(&sets, &args, "cell_id", u.CellID)
	setReference(&sets, &args, "leader_id", u.LeaderID)
	setScalar(&sets, &args, "course_new_path", u.Courses.NewPath)
	setScalar(&sets, &args, "course_devotional_life", u.Courses.DevotionalLife)
	setScalar(&sets, &args, "course_christian_family", u.Courses.ChristianFamily)
	setScalar(&sets, &args, "course_prosperity_life", u.Courses.ProsperityLife)
	setScalar(&sets, &args, "course_authority", u.Courses.Authority)
	setScalar(&sets, &args, "course_life_in_spirit", u.Courses.LifeInSpirit)
	setScalar(&sets, &args, "course_character_of_christ", u.Courses.CharacterOfChrist)
	setScalar(&sets, &args, "course_restored_identity", u.Courses.RestoredIdentity)

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	q := fmt.Sprintf("UPDATE members SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.pool.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// setScalar appends a SET clause for a NOT NULL column. An explicit null
// writes the zero value of T.
func setScalar[T any](sets *[]string, args *[]any, col string, o domain.Optional[T]) {
	if !o.Present {
		return
	}
	var v T
	if o.Valid {
		v = o.Value
	}
	*args = append(*args, v)
	*sets = append(*sets, fmt.Sprintf("%s = $%d", col, len(*args)))
}

// setReference appends a SET clause for a nullable reference column. An
// explicit null writes SQL NULL.
func setReference(sets *[]string, args *[]any, col string, o domain.Optional[string]) {
	if !o.Present {
		return
	}
	if o.Valid {
		*args = append(*args, o.Value)
	} else {
		*args = append(*args, nil)
	}
	*sets = append(*sets, fmt.Sprintf("%s = $%d", col, len(*args)))
}

// DeleteWithReferences removes the member's cell and ministry association rows
// and any leadership assignment, then the member row, in one transaction.
// Reports whether the member row existed.
func (r *PostgresRepository) DeleteWithReferences(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := db.WithTx(ctx, r.pool, func(tx *sql.Tx) error {
		if err := deleteReferences(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// deleteReferences clears every row that references the member. All three
// deletes must land before the member row goes; their relative order does not
// matter.
func deleteReferences(ctx context.Context, q db.Queryer, memberID string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM member_cells WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM member_ministries WHERE member_id = $1`, memberID); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM cell_leaders WHERE leader_id = $1`, memberID); err != nil {
		return err
	}
	return nil
}
