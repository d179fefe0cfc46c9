package binder

import "github.com/google/uuid"

// Record is the generic item type collection fields manage when forms are
// assembled from descriptors: a stable identity plus a bag of values
// produced by the creation flow.
type Record struct {
	ID     string
	Values map[string]any
}

// NewRecord mints a record with a fresh id.
func NewRecord() Record {
	return Record{ID: uuid.NewString(), Values: make(map[string]any)}
}

// RecordID extracts a record's identity; collections use it as their id
// function.
func RecordID(r Record) string { return r.ID }
