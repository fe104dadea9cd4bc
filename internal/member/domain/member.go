package domain

import (
	"errors"
	"time"
)

// Member is the core community member entity. CellID and LeaderID are nil when
// the member does not belong to a cell or has no assigned cell leader.
type Member struct {
	ID           string
	FullName     string
	BirthDate    string // opaque date string as submitted, e.g. "1990-04-17"
	Email        string
	Phone        string
	PasswordHash string
	Role         Role

	Baptized              bool
	AttendedWelcomeCoffee bool
	InMinistry            bool
	MinistryName          string
	InCell                bool
	CellID                *string
	LeaderID              *string

	Courses Courses

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Courses tracks completion of the discipleship course track.
type Courses struct {
	NewPath           bool
	DevotionalLife    bool
	ChristianFamily   bool
	ProsperityLife    bool
	Authority         bool
	LifeInSpirit      bool
	CharacterOfChrist bool
	RestoredIdentity  bool
}

// Role is the member's role within the community. Values are the wire strings
// stored in the database and exchanged with clients.
type Role string

const (
	RoleAdmin         Role = "Administrador"
	RoleCellLeader    Role = "LiderCelula"
	RoleRegularMember Role = "UsuarioComum"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCellLeader, RoleRegularMember:
		return true
	}
	return false
}

// Detail is a member joined with the display names of its cell and leader.
// CellName and LeaderName are nil when the member has no cell or no leader.
type Detail struct {
	Member
	CellName   *string
	LeaderName *string
}

// Validate validates the member for persistence. Returns an error describing
// the first validation failure.
func (m *Member) Validate() error {
	if m.FullName == "" {
		return errors.New("full name is required")
	}
	if m.Email == "" {
		return errors.New("email is required")
	}
	if m.Role == "" {
		m.Role = RoleRegularMember
	}
	if !m.Role.Valid() {
		return errors.New("unknown role")
	}
	return nil
}
