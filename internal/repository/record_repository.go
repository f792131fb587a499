package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record is stored under a kind.
var ErrNotFound = errors.New("record not found")

// RecordRepository persists opaque JSON bodies keyed by record kind.
type RecordRepository interface {
	Get(ctx context.Context, kind string) ([]byte, error)
	// UpdateMany runs fn inside one transaction with the current bodies of
	// kinds (absent kinds are missing from the map) and stores every body
	// fn returns. Either all of them are written or none are.
	UpdateMany(ctx context.Context, kinds []string, fn func(current map[string][]byte) (map[string][]byte, error)) error
	Delete(ctx context.Context, kinds ...string) error
	Kinds(ctx context.Context) ([]string, error)
}
