package repository

import "time"

// Entry represents a kv row.
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}
