package sqlite

import "time"

// Entry is one row of the kv_entries table.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}
