package domain

import "time"

// Session confines one ledger to one client session.
type Session struct {
	ID        string
	Ledger    Ledger
	CreatedAt time.Time
	UpdatedAt time.Time
}
