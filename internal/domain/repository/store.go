package repository

import "context"

// Store is the generic keyed collection every record type is persisted in.
// Get returns (nil, nil) when the key is absent.
type Store[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	// GetAll returns every record in storage order; callers sort when needed
	GetAll(ctx context.Context) ([]T, error)
	// Add inserts a new record and fails with a conflict error if the key exists
	Add(ctx context.Context, entity *T) error
	// Put inserts or fully replaces a record
	Put(ctx context.Context, entity *T) error
	// Patch merges fields (keyed by column name) into an existing record
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*T, error)
	// Delete removes a record; deleting an absent key is not an error
	Delete(ctx context.Context, id string) error
	// Clear removes every record of the type
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn inside a single storage transaction. Repositories called
// with the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
