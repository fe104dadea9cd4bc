package domain

import "time"

// Cell is a small group within the community. Leadership is tracked separately
// on the leader roster, not on the cell row.
type Cell struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
