// Package store provides database access interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/narvanalabs/signing-vault/internal/models"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateKey is returned when a signing log for the same device revision already exists.
	ErrDuplicateKey = errors.New("duplicate key")
)

// SigningLogStore defines operations on the signing log.
type SigningLogStore interface {
	// List returns at most limit entries ordered by id descending.
	// A positive fromID restricts the page to entries with id < fromID.
	List(ctx context.Context, fromID, limit int) ([]*models.SigningLog, error)
	// Get retrieves a signing log entry by ID.
	Get(ctx context.Context, id int) (*models.SigningLog, error)
	// Create inserts a new entry and sets its ID and Created fields.
	Create(ctx context.Context, entry *models.SigningLog) error
	// Delete removes an entry. Returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id int) error
}

// Store is the main interface for database operations.
type Store interface {
	// SigningLogs returns the SigningLogStore.
	SigningLogs() SigningLogStore

	// WithTx executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
