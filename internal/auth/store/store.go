package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a transaction can only be started from the root.
type Store interface {
	Users() Users
	Activity() Activity

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns an active or inactive user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByHandle matches the username exactly or the email
	// case-insensitively. Used by login.
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)

	// CreateUser inserts u and returns it with its assigned id and timestamps.
	// Duplicate usernames or emails return ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateLastLogin sets last_login without touching updated_at.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// UpdateProfile sets username, name and email and bumps updated_at.
	UpdateProfile(ctx context.Context, id int64, username, name, email string) error

	// UsernameTaken reports whether another user than excludeID has username.
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)

	// EmailTaken reports whether another user than excludeID has email.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

type Activity interface {
	// CreateEntry appends an entry to the activity log.
	CreateEntry(ctx context.Context, e domain.ActivityEntry) error

	// ListByUser returns the most recent entries for a user, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityEntry, error)

	// DeleteBefore removes entries created before t and returns how many.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}
