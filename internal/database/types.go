package database

import (
	"time"
)

// Identity is a registered person: one row of the identities table.
// Rows are append-only; nothing in the service updates or deletes them.
type Identity struct {
	ID        int64
	Name      string
	Embedding []float32
	Dim       int
	PhotoPath string // photostore reference of the registration photo
	CreatedAt time.Time
}
