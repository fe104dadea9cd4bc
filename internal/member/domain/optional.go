package domain

import "encoding/json"

// Optional is a three-state field for partial updates: absent (leave the stored
// value unchanged), explicit null (clear the stored value), or present with a
// value (overwrite). The zero value is absent.
type Optional[T any] struct {
	Present bool
	Valid   bool // false when the caller supplied an explicit null
	Value   T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Valid: true, Value: v}
}

// Null returns a present-but-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON is only called for keys present in the JSON object, so a field
// left at its zero value means the caller omitted it.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true
	if string(b) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Update holds the partial-update form of a member. Absent fields keep their
// stored values; nullable references (cell, leader) may be explicitly cleared.
type Update struct {
	FullName  Optional[string]
	BirthDate Optional[string]
	Email     Optional[string]
	Phone     Optional[string]
	// PasswordHash is set by the service after hashing; never raw input.
	PasswordHash Optional[string]
	Role         Optional[Role]

	Baptized              Optional[bool]
	AttendedWelcomeCoffee Optional[bool]
	InMinistry            Optional[bool]
	MinistryName          Optional[string]
	InCell                Optional[bool]
	CellID                Optional[string]
	LeaderID              Optional[string]

	Courses CoursesUpdate
}

// CoursesUpdate holds partial updates for the course completion flags.
type CoursesUpdate struct {
	NewPath           Optional[bool]
	DevotionalLife    Optional[bool]
	ChristianFamily   Optional[bool]
	ProsperityLife    Optional[bool]
	Authority         Optional[bool]
	LifeInSpirit      Optional[bool]
	CharacterOfChrist Optional[bool]
	RestoredIdentity  Optional[bool]
}

// Empty reports whether the update carries no fields at all.
func (u *Update) Empty() bool {
	return !(u.FullName.Present || u.BirthDate.Present || u.Email.Present ||
		u.Phone.Present || u.PasswordHash.Present || u.Role.Present ||
		u.Baptized.Present || u.AttendedWelcomeCoffee.Present ||
		u.InMinistry.Present || u.MinistryName.Present || u.InCell.Present ||
		u.CellID.Present || u.LeaderID.Present ||
		u.Courses.NewPath.Present || u.Courses.DevotionalLife.Present ||
		u.Courses.ChristianFamily.Present || u.Courses.ProsperityLife.Present ||
		u.Courses.Authority.Present || u.Courses.LifeInSpirit.Present ||
		u.Courses.CharacterOfChrist.Present || u.Courses.RestoredIdentity.Present)
}
