package storage

import (
	"context"

	"github.com/akarpov/usersvc/internal/models"
)

// UserStorage defines interface for user account persistence.
// Implementations are the sole authority over persisted user state:
// they hash passwords before writing and never return password secrets
// from read operations.
type UserStorage interface {
	// List returns all users ordered by id, newest first.
	// Password secrets are excluded.
	List(ctx context.Context) ([]models.User, error)

	// FindByID retrieves a user by id, password secret excluded.
	// Returns ErrUserNotFound if no user matches.
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// Create inserts a new user and returns the assigned id.
	// Uniqueness is checked in fixed order (username first, then email);
	// the first failing check returns ErrUsernameTaken or ErrEmailTaken.
	// The password is stored hashed, never in plaintext.
	Create(ctx context.Context, name, username, email, password string) (int64, error)

	// Update modifies a user record. Uniqueness checks run as in Create
	// but exclude the row being updated. An empty password leaves the
	// stored secret unchanged; otherwise it is re-hashed and replaced.
	Update(ctx context.Context, id int64, name, username, email, password string) error

	// UpdatePassword re-hashes and replaces the password unconditionally.
	// The caller is responsible for confirming the user exists.
	UpdatePassword(ctx context.Context, password string, id int64) error

	// Authenticate looks up a user by exact username or email match and
	// verifies the password. Any failure — unknown identifier or wrong
	// password — returns ErrInvalidCredentials, deliberately
	// indistinguishable to prevent account enumeration.
	Authenticate(ctx context.Context, usernameOrEmail, password string) (int64, error)

	// Delete removes a user by id. Deleting a non-existent id is not an
	// error at this layer; existence is checked by the calling operation.
	Delete(ctx context.Context, id int64) error
}
