// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/novalabs/nova-server/internal/domain"
)

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned when an operation targets a record that does not
// exist or is not owned by the requesting user.
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for persisting users and interaction history.
type Repository interface {
	// CreateUser inserts a new user record. Returns ErrEmailTaken if the
	// email is already in use.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves a user by ID. Returns (nil, nil) if not found.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) if not found.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// SaveHistory appends one interaction to a user's history log.
	SaveHistory(ctx context.Context, entry *domain.HistoryEntry) error

	// GetRecentHistory returns the most recent entries for a user,
	// newest first. Used to enrich chat prompts with context.
	GetRecentHistory(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error)

	// ListHistory returns up to limit entries for a user, newest first.
	ListHistory(ctx context.Context, userID string, limit int) ([]*domain.HistoryEntry, error)

	// DeleteHistory removes one entry owned by the user. Returns ErrNotFound
	// if no entry matches (or it belongs to another user).
	DeleteHistory(ctx context.Context, userID string, entryID string) error

	// ClearHistory removes all entries for a user and reports how many.
	ClearHistory(ctx context.Context, userID string) (int64, error)

	// PurgeHistoryOlderThan removes entries created before the cutoff,
	// across all users. Used by the retention sweep worker.
	PurgeHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
