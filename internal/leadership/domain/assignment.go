package domain

// Assignment links a leader to the cell they lead. At most one assignment
// exists per leader at a time; a new promotion replaces any prior one.
type Assignment struct {
	LeaderID  string
	CellID    string
	StartDate string // date the leadership began, e.g. "2026-09-01"
}
