package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyExists is returned by PutIfAbsent when the target key is taken.
	ErrKeyExists = errors.New("key already exists")

	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("record not found")

	// ErrThrottled signals a transient throughput failure; the caller may retry.
	ErrThrottled = errors.New("storage throughput exceeded")
)

// FoodRecord is one food entry as persisted in the single table.
// PK/SK form the composite storage key; everything else is item data.
type FoodRecord struct {
	PK         string
	SK         string
	EntityType string
	FoodID     string
	UserID     string
	Name       string
	Protein    float64
	Carbs      float64
	Fats       float64
	Calories   int
	Date       string // YYYY-MM-DD
	Timestamp  int64  // milliseconds since epoch, creation instant
	CreatedAt  string // RFC3339 UTC
	UpdatedAt  string // RFC3339 UTC
}

// FieldUpdate carries the mutable fields for an in-place update. The key (and the
// date embedded in it) stays fixed; a date change is a re-key, not an update.
type FieldUpdate struct {
	Name      string
	Protein   float64
	Carbs     float64
	Fats      float64
	Calories  int
	UpdatedAt string
}

// EntryStorage is the key-value collaborator backing the food log.
type EntryStorage interface {
	// PutIfAbsent inserts the record only if its (PK, SK) key is free.
	// Returns ErrKeyExists if the key is taken, ErrThrottled on transient
	// throughput failures.
	PutIfAbsent(ctx context.Context, rec *FoodRecord) error

	// QueryPrefix returns every record under pk whose SK starts with
	// skPrefix, ordered by SK.
	QueryPrefix(ctx context.Context, pk, skPrefix string, ascending bool) ([]FoodRecord, error)

	// UpdateFields overwrites the mutable fields of the record at (pk, sk).
	// Returns ErrNotFound if the key does not exist.
	UpdateFields(ctx context.Context, pk, sk string, upd FieldUpdate) error

	// Delete removes the record at (pk, sk). Deleting an absent key is a no-op.
	Delete(ctx context.Context, pk, sk string) error

	// Close releases backend resources.
	Close() error
}
