package tasks

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrInvalidID   = errors.New("invalid task id")
	ErrInvalidJSON = errors.New("invalid json")
)

// Repository is the document store holding tasks. Implementations return
// ErrNotFound for a well-formed id with no document and ErrInvalidID for an
// id the store cannot represent.
type Repository interface {
	// List returns every task ordered by ascending deadline.
	List(ctx context.Context) ([]Task, error)
	// Create persists t and returns it with its generated ID.
	Create(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, id string) (Task, error)
	// Replace overwrites the whole document with t.ID.
	Replace(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id string) error
}
